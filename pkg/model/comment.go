package model

import (
	"context"
	"time"

	"github.com/fleakr/fleakr-go/pkg/api"
	"github.com/fleakr/fleakr-go/pkg/mapper"
)

var commentSchema = mapper.NewSchema("comment",
	mapper.Attributes("id"),
	mapper.AttributeFrom("author_id", "@author"),
	mapper.AttributeFrom("author_name", "@authorname"),
	mapper.AttributeFrom("created", "@datecreate"),
	mapper.AttributeFrom("url", "@permalink"),
	mapper.AttributeFrom("body", "."),
	mapper.FindsAll("by_set_id", "photoset_id", "photosets.comments.getList", "comments/comment"),
	mapper.FindsAll("by_photo_id", "photo_id", "photos.comments.getList", "comments/comment"),
)

// Comment is a comment left on a set or a photo.
type Comment struct {
	*mapper.Object
}

// FindCommentsBySetID lists the comments on a set, oldest first.
func FindCommentsBySetID(ctx context.Context, caller api.Caller, setID string, opts api.Options) ([]*Comment, error) {
	objs, err := mapper.FindAll(ctx, caller, commentSchema, "by_set_id", setID, opts)
	if err != nil {
		return nil, err
	}
	return wrapComments(objs), nil
}

// FindCommentsByPhotoID lists the comments on a photo, oldest first.
func FindCommentsByPhotoID(ctx context.Context, caller api.Caller, photoID string, opts api.Options) ([]*Comment, error) {
	objs, err := mapper.FindAll(ctx, caller, commentSchema, "by_photo_id", photoID, opts)
	if err != nil {
		return nil, err
	}
	return wrapComments(objs), nil
}

func wrapComments(objs []*mapper.Object) []*Comment {
	out := make([]*Comment, 0, len(objs))
	for _, o := range objs {
		out = append(out, &Comment{o})
	}
	return out
}

func (c *Comment) Body() string       { return c.String("body") }
func (c *Comment) AuthorID() string   { return c.String("author_id") }
func (c *Comment) AuthorName() string { return c.String("author_name") }
func (c *Comment) URL() string        { return c.String("url") }

// Created is when the comment was posted.
func (c *Comment) Created() (time.Time, bool) {
	return unixTime(c.String("created"))
}
