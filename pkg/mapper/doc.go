// Package mapper maps remote API responses onto domain objects.
//
// Each domain type owns one immutable Schema built at startup:
//
//	var setSchema = mapper.NewSchema("set",
//		mapper.Attributes("id", "title", "description"),
//		mapper.AttributeFrom("count", "@photos"),
//		mapper.FindsAll("by_user_id", "", "photosets.getList", "photosets/photoset"),
//		mapper.FindsOne("by_id", "photoset_id", "photosets.getInfo", "photoset"),
//		mapper.LazilyLoad("info", mapper.StandardLoader("photosets.getInfo", "photoset_id", "photoset"), "user_id"),
//	)
//
// FindOne, FindAll and Related issue the remote call and build Objects from
// the response tree. Object.Get runs a lazy loader the first time an unset
// lazy attribute is read; a failed load is returned and retried on the next
// read. Cached memoizes derived accessors per object and per effective
// option set.
//
// Objects are safe for concurrent use: loads are serialized per object and
// concurrent cache misses for the same key share one call.
package mapper
