package model

import (
	"context"
	"fmt"

	"github.com/fleakr/fleakr-go/pkg/api"
	"github.com/fleakr/fleakr-go/pkg/mapper"
)

var setSchema = mapper.NewSchema("set",
	mapper.Attributes("id", "title", "description"),
	mapper.AttributeFrom("primary_photo_id", "@primary"),
	mapper.AttributeFrom("count", "@photos"),
	mapper.AttributeFrom("user_id", "@owner"),
	mapper.HasMany(mapper.Association{Name: "photos", Schema: photoSchema, Finder: "by_set_id"}),
	mapper.HasMany(mapper.Association{Name: "comments", Schema: commentSchema, Finder: "by_set_id"}),
	mapper.FindsAll("by_user_id", "", "photosets.getList", "photosets/photoset"),
	mapper.FindsOne("by_id", "photoset_id", "photosets.getInfo", "photoset"),
	mapper.LazilyLoad("load_info", mapper.StandardLoader("photosets.getInfo", "photoset_id", "photoset"), "user_id"),
)

// Set is a photoset.
type Set struct {
	*mapper.Object
}

// FindSetsByUserID lists the sets of a user. An empty userID lists the sets
// of the authenticated user.
func FindSetsByUserID(ctx context.Context, caller api.Caller, userID string, opts api.Options) ([]*Set, error) {
	objs, err := mapper.FindAll(ctx, caller, setSchema, "by_user_id", userID, opts)
	if err != nil {
		return nil, err
	}
	return wrapSets(objs), nil
}

// FindSetByID fetches one set.
func FindSetByID(ctx context.Context, caller api.Caller, id string, opts api.Options) (*Set, error) {
	o, err := mapper.FindOne(ctx, caller, setSchema, "by_id", id, opts)
	if err != nil {
		return nil, err
	}
	return &Set{o}, nil
}

// CreateSet creates a set around an existing photo and returns it fully
// loaded. opts may carry "description".
func CreateSet(ctx context.Context, caller api.Caller, title, primaryPhotoID string, opts api.Options) (*Set, error) {
	params := api.Merge(caller.AuthOptions(), opts, api.Options{
		"title":            title,
		"primary_photo_id": primaryPhotoID,
	})
	resp, err := caller.CallStrict(ctx, "photosets.create", params)
	if err != nil {
		return nil, err
	}
	id, ok := resp.Body.Value("photoset/@id")
	if !ok {
		return nil, fmt.Errorf("photosets.create: no photoset id in response: %w", api.ErrNotFound)
	}
	return FindSetByID(ctx, caller, id, api.AuthSubset(opts))
}

func wrapSets(objs []*mapper.Object) []*Set {
	out := make([]*Set, 0, len(objs))
	for _, o := range objs {
		out = append(out, &Set{o})
	}
	return out
}

func (s *Set) Title() string          { return s.String("title") }
func (s *Set) Description() string    { return s.String("description") }
func (s *Set) PrimaryPhotoID() string { return s.String("primary_photo_id") }

// Count is the number of photos in the set as reported by the service.
func (s *Set) Count() int {
	n, _ := s.Int("count")
	return n
}

// UserID returns the owner's id, loading the set info if the listing that
// produced the set did not carry it.
func (s *Set) UserID(ctx context.Context) (string, error) {
	return s.Get(ctx, "user_id")
}

// URL returns the set's web page.
func (s *Set) URL(ctx context.Context) (string, error) {
	userID, err := s.UserID(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("http://www.flickr.com/photos/%s/sets/%s/", userID, s.ID()), nil
}

// Photos fetches the photos of the set in set order.
func (s *Set) Photos(ctx context.Context, opts api.Options) ([]*Photo, error) {
	objs, err := mapper.Related(ctx, s.Object, "photos", opts)
	if err != nil {
		return nil, err
	}
	return wrapPhotos(objs), nil
}

// Comments fetches the comments left on the set.
func (s *Set) Comments(ctx context.Context, opts api.Options) ([]*Comment, error) {
	objs, err := mapper.Related(ctx, s.Object, "comments", opts)
	if err != nil {
		return nil, err
	}
	return wrapComments(objs), nil
}

// PrimaryPhoto fetches the set's cover photo. Results are cached per
// distinct opts.
func (s *Set) PrimaryPhoto(ctx context.Context, opts api.Options) (*Photo, error) {
	return mapper.Cached(ctx, s.Object, "primary_photo", opts, func(ctx context.Context, merged api.Options) (*Photo, error) {
		return FindPhotoByID(ctx, s.Caller(), s.PrimaryPhotoID(), merged)
	})
}

// User fetches the set's owner. Results are cached per distinct opts.
func (s *Set) User(ctx context.Context, opts api.Options) (*User, error) {
	userID, err := s.UserID(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.Cached(ctx, s.Object, "user", opts, func(ctx context.Context, merged api.Options) (*User, error) {
		return FindUserByID(ctx, s.Caller(), userID, merged)
	})
}

// AddPhoto appends a photo to the set.
func (s *Set) AddPhoto(ctx context.Context, photoID string, opts api.Options) error {
	caller := s.Caller()
	if caller == nil {
		return mapper.ErrNoCaller
	}
	params := api.Merge(s.AuthOptions(), opts, api.Options{
		"photoset_id": s.ID(),
		"photo_id":    photoID,
	})
	_, err := caller.CallStrict(ctx, "photosets.addPhoto", params)
	return err
}
