package response

// Failure inspects a response root of the form
//
//	<rsp stat="fail"><err code="1" msg="Photoset not found"/></rsp>
//
// and reports the error code and message when the status is not "ok".
func (n *Node) Failure() (code, msg string, failed bool) {
	if n == nil {
		return "", "", false
	}
	stat, ok := n.Attr("stat")
	if !ok || stat == "ok" {
		return "", "", false
	}
	if e := n.Child("err"); e != nil {
		code, _ = e.Attr("code")
		msg, _ = e.Attr("msg")
	}
	return code, msg, true
}
