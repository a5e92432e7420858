// Package sdk provides the high-level entry point for the photo service
// client.
//
// # Quick Start
//
//	import (
//		"github.com/fleakr/fleakr-go/pkg/config"
//		"github.com/fleakr/fleakr-go/pkg/sdk"
//	)
//
//	func main() {
//		cfg := &config.Config{
//			APIKey: "YOUR_API_KEY",
//			Debug:  true,
//		}
//
//		flickr, err := sdk.NewSDK(cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer flickr.Close()
//
//		user, err := flickr.UserByUsername(ctx, "frootpantz", nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//		sets, err := user.Sets(ctx, nil)
//		...
//	}
//
// # Architecture
//
// The SDK wires three layers together:
//
//   - api: HTTP transport, option encoding, multipart uploads and error types
//   - mapper: schemas, finders, lazy attributes and per-object caching
//   - model: the domain objects (Set, Photo, User, Comment, Tag)
//
// The Flickr interface is a thin facade over the model finders bound to one
// api.Client. Caller exposes that client for methods the model does not
// cover:
//
//	resp, err := flickr.Caller().CallStrict(ctx, "photos.getRecent", api.Options{"per_page": 10})
//
// # Configuration
//
// Required configuration fields:
//   - APIKey: application key
//
// Optional fields:
//   - AuthToken: user token sent with every call
//   - Endpoint, UploadEndpoint: override the service endpoints
//   - Debug: enable verbose logging
//   - Timeouts: per-call and per-upload deadlines
//
// config.Load reads the same fields from a YAML file and the environment.
//
// # Error Handling
//
// Errors carry their cause and can be inspected with errors.Is/errors.As:
//
//	set, err := flickr.Set(ctx, "72157", nil)
//	var remote *api.RemoteError
//	switch {
//	case errors.Is(err, api.ErrNotFound):
//		// the response held no photoset
//	case errors.As(err, &remote):
//		// the service answered stat="fail"; remote.Code, remote.Message
//	case err != nil:
//		// transport failure (*api.TransportError) or bad option
//	}
//
// # Thread Safety
//
// The SDK Core and the objects it returns are safe for concurrent use. Lazy
// attributes are fetched at most once per object even under concurrent
// reads.
//
// # Logging
//
// The package installs a console zap logger at info level on import.
// Config.Debug lowers it to debug, which logs every API call, lazy load and
// cache miss. Applications may replace it with zap.ReplaceGlobals.
package sdk
