package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultEndpoint is the REST endpoint used for method calls.
	DefaultEndpoint = "https://api.flickr.com/services/rest/"
	// DefaultUploadEndpoint is the endpoint used for multipart photo uploads.
	DefaultUploadEndpoint = "https://up.flickr.com/services/upload/"

	// EnvAPIKey overrides Config.APIKey in Load.
	EnvAPIKey = "FLICKR_API_KEY"
	// EnvAuthToken overrides Config.AuthToken in Load.
	EnvAuthToken = "FLICKR_AUTH_TOKEN"
)

// Config holds all client settings. Use Validate to fill implicit defaults
// and to check for required fields.
type Config struct {
	// APIKey identifies the application (required).
	APIKey string `json:"api_key" yaml:"api_key"`
	// SharedSecret is the application secret. It is carried for signing
	// collaborators and never sent on the wire by this package.
	SharedSecret string `json:"shared_secret" yaml:"shared_secret"`
	// AuthToken is an optional user token sent with every call.
	AuthToken string `json:"auth_token" yaml:"auth_token"`
	// Endpoint is the REST endpoint. Default: DefaultEndpoint.
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	// UploadEndpoint is the upload endpoint. Default: DefaultUploadEndpoint.
	UploadEndpoint string `json:"upload_endpoint" yaml:"upload_endpoint"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug"`
	// Timeouts configures per-operation timeouts. See Timeouts.WithDefaults for defaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// Timeouts controls request deadlines.
// Zero values will be replaced by defaults in WithDefaults.
type Timeouts struct {
	Call   time.Duration `json:"call" yaml:"call"`     // REST method call
	Upload time.Duration `json:"upload" yaml:"upload"` // multipart upload
}

// Validate normalizes the configuration by applying the default endpoints
// and verifies that APIKey is provided.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}

	if c.UploadEndpoint == "" {
		c.UploadEndpoint = DefaultUploadEndpoint
	}

	if c.APIKey == "" {
		return errors.New("API key is required")
	}

	return nil
}

// AuthOptions returns the credentials merged into every outgoing call:
// api_key always, auth_token when one is configured.
func (c *Config) AuthOptions() map[string]string {
	opts := map[string]string{"api_key": c.APIKey}
	if c.AuthToken != "" {
		opts["auth_token"] = c.AuthToken
	}
	return opts
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Call:   10s
//	Upload: 120s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Call == 0 {
		tt.Call = 10 * time.Second
	}
	if tt.Upload == 0 {
		tt.Upload = 120 * time.Second
	}
	return tt
}

// Load reads a YAML configuration file, applies environment overrides
// (FLICKR_API_KEY, FLICKR_AUTH_TOKEN) and validates the result. An empty path
// skips the file and builds the configuration from the environment alone.
// Each override then runs on the result before validation, so callers such
// as command-line flags take precedence over both the file and the
// environment.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(EnvAuthToken); v != "" {
		cfg.AuthToken = v
	}
	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
