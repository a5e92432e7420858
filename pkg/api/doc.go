// Package api provides the transport for the photo service client.
//
// The rest of the SDK talks to the service only through the Caller and
// Uploader interfaces defined here.
//
// # Method Calls
//
// Client issues REST method calls. The configured credentials are merged
// into every call:
//
//	client := api.NewClient(cfg)
//	resp, err := client.Call(ctx, "photosets.getInfo", api.Options{"photoset_id": "72157"})
//	if err != nil {
//		// *api.TransportError: network failure, non-2xx status, bad body
//	}
//	if err := resp.Err(); err != nil {
//		// *api.RemoteError: the service answered stat="fail"
//	}
//
// CallStrict folds the second check into the first: it never returns a
// response that carries an error payload. Mutating operations (create, add,
// upload) always go through the strict variant.
//
// # Options
//
// Option values are rendered to their wire form by FormatValue: booleans as
// "1"/"0", times as Unix seconds, string slices space separated, anything
// implementing encoding.TextMarshaler through MarshalText. Other types fail
// with ErrUnsupportedOption rather than being rendered through fmt, so the
// same options always produce the same request.
//
// # Uploads
//
// A photo upload is a multipart/form-data body made of value parameters and
// one file parameter:
//
//	params, err := api.UploadParameters(api.FilePath("holiday.jpg"), api.Options{"title": "Beach"})
//	resp, err := client.Upload(ctx, params...)
//	photoID, _ := resp.Body.Value("photoid")
//
// Each FileParameter renders its own part:
//
//	Content-Disposition: form-data; name="photo"; filename="holiday.jpg"
//	Content-Type: image/jpeg
//
//	<raw bytes>
//
// Only .jpg, .png and .gif map to a content type; any other extension
// renders an empty Content-Type line rather than failing. Sources are
// either a FilePath, read from disk once on first use, or InlineBytes for
// payloads already in memory.
//
// # Errors
//
// All failures are typed so callers can tell them apart:
//
//	var remote *api.RemoteError
//	var transport *api.TransportError
//	switch {
//	case errors.Is(err, api.ErrNotFound):
//	case errors.As(err, &remote):
//	case errors.As(err, &transport):
//	}
package api
