package mapper

import (
	"github.com/fleakr/fleakr-go/pkg/api"
	"github.com/fleakr/fleakr-go/pkg/response"
)

// Build returns a new object of schema populated from node.
func Build(schema *Schema, caller api.Caller, node *response.Node) *Object {
	o := New(schema, caller)
	Populate(o, node)
	return o
}

// Populate copies every declared attribute present in node onto o.
// Attributes missing from node keep their current value, so populating
// twice from fragments with disjoint attributes keeps both. Inline
// associations are replaced only when node holds at least one match.
func Populate(o *Object, node *response.Node) {
	if node == nil {
		return
	}
	found := make(map[string]string)
	for _, a := range o.schema.attributes {
		if v, ok := resolve(node, a); ok {
			found[a.Name] = v
		}
	}
	o.mu.Lock()
	for k, v := range found {
		o.attrs[k] = v
	}
	o.mu.Unlock()

	for _, name := range o.schema.assocOrder {
		a := o.schema.associations[name]
		if a.Path == "" || node.Find(a.Path) == nil {
			continue
		}
		o.setAssociated(name, Associate(o.caller, node, a))
	}
}

// Associate maps every node matching a.Path below node to an object of
// a.Schema, in document order. No match yields an empty, non-nil slice.
func Associate(caller api.Caller, node *response.Node, a Association) []*Object {
	var nodes []*response.Node
	if node != nil {
		nodes = node.FindAll(a.Path)
	}
	out := make([]*Object, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Build(a.Schema, caller, n))
	}
	return out
}

func resolve(node *response.Node, a Attribute) (string, bool) {
	if a.From != "" {
		return node.Value(a.From)
	}
	if v, ok := node.Value(a.Name); ok {
		return v, true
	}
	return node.Attr(a.Name)
}
