package model

import (
	"context"
	"strconv"

	"github.com/fleakr/fleakr-go/pkg/api"
	"github.com/fleakr/fleakr-go/pkg/mapper"
)

var userSchema = mapper.NewSchema("user",
	mapper.Attributes("id", "username"),
	mapper.AttributeFrom("name", "realname"),
	mapper.Attributes("location"),
	mapper.AttributeFrom("photos_url", "photosurl"),
	mapper.AttributeFrom("profile_url", "profileurl"),
	mapper.AttributeFrom("photo_count", "photos/count"),
	mapper.HasMany(mapper.Association{Name: "sets", Schema: setSchema, Finder: "by_user_id"}),
	mapper.HasMany(mapper.Association{Name: "photos", Schema: photoSchema, Finder: "by_user_id"}),
	mapper.FindsOne("by_id", "user_id", "people.getInfo", "person"),
	mapper.FindsOne("by_username", "", "people.findByUsername", "user"),
	mapper.FindsOne("by_email", "find_email", "people.findByEmail", "user"),
	mapper.LazilyLoad("load_info", mapper.StandardLoader("people.getInfo", "user_id", "person"),
		"name", "location", "photos_url", "profile_url", "photo_count"),
)

// User is a member of the photo service.
type User struct {
	*mapper.Object
}

// FindUserByID fetches a user's profile.
func FindUserByID(ctx context.Context, caller api.Caller, id string, opts api.Options) (*User, error) {
	return findUser(ctx, caller, "by_id", id, opts)
}

// FindUserByUsername resolves a screen name. Profile fields are loaded on
// first read.
func FindUserByUsername(ctx context.Context, caller api.Caller, username string, opts api.Options) (*User, error) {
	return findUser(ctx, caller, "by_username", username, opts)
}

// FindUserByEmail resolves an email address. Profile fields are loaded on
// first read.
func FindUserByEmail(ctx context.Context, caller api.Caller, email string, opts api.Options) (*User, error) {
	return findUser(ctx, caller, "by_email", email, opts)
}

func findUser(ctx context.Context, caller api.Caller, finder, key string, opts api.Options) (*User, error) {
	o, err := mapper.FindOne(ctx, caller, userSchema, finder, key, opts)
	if err != nil {
		return nil, err
	}
	return &User{o}, nil
}

func (u *User) Username() string { return u.String("username") }

func (u *User) Name(ctx context.Context) (string, error)       { return u.Get(ctx, "name") }
func (u *User) Location(ctx context.Context) (string, error)   { return u.Get(ctx, "location") }
func (u *User) PhotosURL(ctx context.Context) (string, error)  { return u.Get(ctx, "photos_url") }
func (u *User) ProfileURL(ctx context.Context) (string, error) { return u.Get(ctx, "profile_url") }

// PhotoCount is the total number of photos the user has uploaded.
func (u *User) PhotoCount(ctx context.Context) (int, error) {
	v, err := u.Get(ctx, "photo_count")
	if err != nil || v == "" {
		return 0, err
	}
	return strconv.Atoi(v)
}

// Sets lists the user's sets.
func (u *User) Sets(ctx context.Context, opts api.Options) ([]*Set, error) {
	objs, err := mapper.Related(ctx, u.Object, "sets", opts)
	if err != nil {
		return nil, err
	}
	return wrapSets(objs), nil
}

// Photos lists the user's public photos.
func (u *User) Photos(ctx context.Context, opts api.Options) ([]*Photo, error) {
	objs, err := mapper.Related(ctx, u.Object, "photos", opts)
	if err != nil {
		return nil, err
	}
	return wrapPhotos(objs), nil
}
