package model

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fleakr/fleakr-go/pkg/api"
	"github.com/fleakr/fleakr-go/pkg/mapper"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const takenLayout = "2006-01-02 15:04:05"

var photoSchema = mapper.NewSchema("photo",
	mapper.Attributes("id", "title", "description"),
	mapper.AttributeFrom("secret", "@secret"),
	mapper.AttributeFrom("server", "@server"),
	mapper.AttributeFrom("farm", "@farm"),
	mapper.AttributeFrom("owner_id", "owner/@nsid"),
	mapper.AttributeFrom("posted", "dates/@posted"),
	mapper.AttributeFrom("taken", "dates/@taken"),
	mapper.AttributeFrom("latitude", "location/@latitude"),
	mapper.AttributeFrom("longitude", "location/@longitude"),
	mapper.HasMany(mapper.Association{Name: "tags", Schema: tagSchema, Path: "tags/tag"}),
	mapper.HasMany(mapper.Association{Name: "comments", Schema: commentSchema, Finder: "by_photo_id"}),
	mapper.FindsAll("by_set_id", "photoset_id", "photosets.getPhotos", "photoset/photo"),
	mapper.FindsAll("by_user_id", "", "people.getPublicPhotos", "photos/photo"),
	mapper.FindsOne("by_id", "photo_id", "photos.getInfo", "photo"),
	mapper.LazilyLoad("load_info", mapper.StandardLoader("photos.getInfo", "photo_id", "photo"), "description"),
)

// Photo is a single uploaded photo.
type Photo struct {
	*mapper.Object
}

// FindPhotoByID fetches one photo with its full info.
func FindPhotoByID(ctx context.Context, caller api.Caller, id string, opts api.Options) (*Photo, error) {
	o, err := mapper.FindOne(ctx, caller, photoSchema, "by_id", id, opts)
	if err != nil {
		return nil, err
	}
	return &Photo{o}, nil
}

// FindPhotosBySetID lists the photos of a set.
func FindPhotosBySetID(ctx context.Context, caller api.Caller, setID string, opts api.Options) ([]*Photo, error) {
	objs, err := mapper.FindAll(ctx, caller, photoSchema, "by_set_id", setID, opts)
	if err != nil {
		return nil, err
	}
	return wrapPhotos(objs), nil
}

// FindPhotosByUserID lists the public photos of a user.
func FindPhotosByUserID(ctx context.Context, caller api.Caller, userID string, opts api.Options) ([]*Photo, error) {
	objs, err := mapper.FindAll(ctx, caller, photoSchema, "by_user_id", userID, opts)
	if err != nil {
		return nil, err
	}
	return wrapPhotos(objs), nil
}

// UploadPhoto uploads source and returns the new photo. opts are sent as
// upload fields ("title", "description", "tags", "is_public", ...).
func UploadPhoto(ctx context.Context, uploader api.Uploader, caller api.Caller, source api.Source, opts api.Options) (*Photo, error) {
	params, err := api.UploadParameters(source, opts)
	if err != nil {
		return nil, err
	}
	resp, err := uploader.Upload(ctx, params...)
	if err != nil {
		return nil, err
	}
	id, ok := resp.Body.Value("photoid")
	if !ok || id == "" {
		return nil, fmt.Errorf("upload %s: no photo id in response: %w", source.Filename(), api.ErrNotFound)
	}
	zap.L().Info("photo uploaded", zap.String("file", source.Filename()), zap.String("photo_id", id))
	return FindPhotoByID(ctx, caller, id, api.AuthSubset(opts))
}

func wrapPhotos(objs []*mapper.Object) []*Photo {
	out := make([]*Photo, 0, len(objs))
	for _, o := range objs {
		out = append(out, &Photo{o})
	}
	return out
}

func (p *Photo) Title() string   { return p.String("title") }
func (p *Photo) OwnerID() string { return p.String("owner_id") }

// Description loads the photo info when the photo came from a listing.
func (p *Photo) Description(ctx context.Context) (string, error) {
	return p.Get(ctx, "description")
}

// Posted is the upload time.
func (p *Photo) Posted() (time.Time, bool) {
	return unixTime(p.String("posted"))
}

// Taken is the capture time as recorded by the camera, in the photo's own
// local time.
func (p *Photo) Taken() (time.Time, bool) {
	t, err := time.Parse(takenLayout, p.String("taken"))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Latitude returns the geotag latitude, if any.
func (p *Photo) Latitude() (decimal.Decimal, bool) { return p.Decimal("latitude") }

// Longitude returns the geotag longitude, if any.
func (p *Photo) Longitude() (decimal.Decimal, bool) { return p.Decimal("longitude") }

// URL returns the photo's web page. The owner is only known once the photo
// info is loaded.
func (p *Photo) URL() string {
	return fmt.Sprintf("http://www.flickr.com/photos/%s/%s/", p.OwnerID(), p.ID())
}

// Tags returns the photo's tags, loading the photo info first when the
// photo came from a listing.
func (p *Photo) Tags(ctx context.Context) ([]*Tag, error) {
	tags := p.Associated("tags")
	if len(tags) == 0 && p.LoadState("load_info") != mapper.Loaded {
		if _, ok := p.Value("owner_id"); !ok {
			if err := p.Load(ctx, "load_info"); err != nil {
				return nil, err
			}
			tags = p.Associated("tags")
		}
	}
	return wrapTags(tags), nil
}

// Comments fetches the comments left on the photo.
func (p *Photo) Comments(ctx context.Context, opts api.Options) ([]*Comment, error) {
	objs, err := mapper.Related(ctx, p.Object, "comments", opts)
	if err != nil {
		return nil, err
	}
	return wrapComments(objs), nil
}

// unixTime parses a Unix seconds timestamp as sent by the service.
func unixTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(n, 0).UTC(), true
}
