// Package config provides configuration management for the photo service client.
//
// This package defines the Config structure that controls client behavior:
// credentials, REST and upload endpoints, debug logging and request timeouts.
//
// # Basic Configuration
//
// The minimum required configuration is an API key:
//
//	cfg := &config.Config{
//		APIKey: "YOUR_API_KEY",
//	}
//
// # Credentials
//
// APIKey is sent with every call. AuthToken, when set, is sent as well and
// unlocks calls that act on behalf of a user (creating sets, uploading).
// SharedSecret is carried for request signing collaborators; the client in
// this module never sends it.
//
// AuthOptions returns exactly the credentials merged into outgoing calls.
// The same set takes part in the per-object cache keys, so two objects
// fetched with different tokens never share cached results.
//
// # Endpoints
//
// Defaults:
//
//	Endpoint:       "https://api.flickr.com/services/rest/"
//	UploadEndpoint: "https://up.flickr.com/services/upload/"
//
// Point both at a local server for testing:
//
//	cfg.Endpoint = "http://localhost:8080/rest"
//	cfg.UploadEndpoint = "http://localhost:8080/upload"
//
// # Timeouts
//
//	cfg.Timeouts = config.Timeouts{
//		Call:   15 * time.Second, // REST method call
//		Upload: 5 * time.Minute,  // multipart upload
//	}
//
// Zero values are replaced with defaults via WithDefaults().
//
// # Loading From a File
//
// Load reads a YAML file and applies environment overrides:
//
//	# fleakr.yaml
//	api_key: YOUR_API_KEY
//	auth_token: YOUR_TOKEN
//	debug: true
//	timeouts:
//	  call: 15s
//
//	cfg, err := config.Load("fleakr.yaml")
//
// FLICKR_API_KEY and FLICKR_AUTH_TOKEN take precedence over the file.
//
// # Configuration Validation
//
// Always call Validate() (Load does it for you) to apply defaults and check
// required fields:
//
//   - Sets default endpoints if not provided
//   - Returns an error if APIKey is empty
//
// # Thread Safety
//
// Config instances should be created once and not modified after passing to
// sdk.NewSDK(). The Config is read-only while the client runs.
package config
