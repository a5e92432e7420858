package model

import "github.com/fleakr/fleakr-go/pkg/mapper"

var tagSchema = mapper.NewSchema("tag",
	mapper.Attributes("id"),
	mapper.AttributeFrom("author_id", "@author"),
	mapper.AttributeFrom("raw", "@raw"),
	mapper.AttributeFrom("value", "."),
)

// Tag is a photo tag. Value is the normalized form, Raw the text as the
// author typed it.
type Tag struct {
	*mapper.Object
}

func wrapTags(objs []*mapper.Object) []*Tag {
	out := make([]*Tag, 0, len(objs))
	for _, o := range objs {
		out = append(out, &Tag{o})
	}
	return out
}

// String returns the normalized tag.
func (t *Tag) String() string { return t.Object.String("value") }

func (t *Tag) Raw() string      { return t.Object.String("raw") }
func (t *Tag) AuthorID() string { return t.Object.String("author_id") }
