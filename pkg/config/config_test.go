package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestConfigValidate_AppliesDefaults verifies that Validate fills in the
// REST and upload endpoints when they are not explicitly set.
func TestConfigValidate_AppliesDefaults(t *testing.T) {
	cfg := &Config{
		APIKey: "key",
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if cfg.Endpoint != DefaultEndpoint {
		t.Fatalf("unexpected Endpoint: %s", cfg.Endpoint)
	}
	if cfg.UploadEndpoint != DefaultUploadEndpoint {
		t.Fatalf("unexpected UploadEndpoint: %s", cfg.UploadEndpoint)
	}
}

// TestConfigValidate_KeepsCustomEndpoints verifies that explicit endpoints
// are not overwritten.
func TestConfigValidate_KeepsCustomEndpoints(t *testing.T) {
	cfg := &Config{
		APIKey:         "key",
		Endpoint:       "http://localhost:8080/rest",
		UploadEndpoint: "http://localhost:8080/upload",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if cfg.Endpoint != "http://localhost:8080/rest" {
		t.Errorf("Endpoint = %v", cfg.Endpoint)
	}
	if cfg.UploadEndpoint != "http://localhost:8080/upload" {
		t.Errorf("UploadEndpoint = %v", cfg.UploadEndpoint)
	}
}

// TestConfigValidate_RequiresAPIKey verifies that Validate returns an error
// when APIKey is not provided.
func TestConfigValidate_RequiresAPIKey(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if err.Error() != "API key is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfigAuthOptions(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want map[string]string
	}{
		{
			name: "api key only",
			cfg:  Config{APIKey: "key"},
			want: map[string]string{"api_key": "key"},
		},
		{
			name: "with auth token",
			cfg:  Config{APIKey: "key", AuthToken: "tok", SharedSecret: "secret"},
			want: map[string]string{"api_key": "key", "auth_token": "tok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.AuthOptions()
			if len(got) != len(tt.want) {
				t.Fatalf("AuthOptions() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Fatalf("AuthOptions()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

// TestTimeoutsWithDefaults verifies that WithDefaults preserves explicitly set
// timeout values and fills in defaults for zero values.
func TestTimeoutsWithDefaults(t *testing.T) {
	out := Timeouts{Upload: time.Minute}.WithDefaults()

	if out.Upload != time.Minute {
		t.Fatalf("Upload overwritten: got %v", out.Upload)
	}
	if out.Call != 10*time.Second {
		t.Fatalf("Call default mismatch: %v", out.Call)
	}

	zero := Timeouts{}.WithDefaults()
	if zero.Upload != 120*time.Second {
		t.Fatalf("Upload default mismatch: %v", zero.Upload)
	}
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fleakr.yaml")
	body := []byte("api_key: from-file\nauth_token: file-token\ndebug: true\ntimeouts:\n  call: 3s\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(EnvAPIKey, "from-env")
	t.Setenv(EnvAuthToken, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "from-env" {
		t.Fatalf("APIKey = %q, want env override", cfg.APIKey)
	}
	if cfg.AuthToken != "file-token" {
		t.Fatalf("AuthToken = %q, want value from file", cfg.AuthToken)
	}
	if !cfg.Debug {
		t.Fatal("Debug not loaded")
	}
	if cfg.Timeouts.Call != 3*time.Second {
		t.Fatalf("Timeouts.Call = %v, want 3s", cfg.Timeouts.Call)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Fatalf("Endpoint default not applied: %q", cfg.Endpoint)
	}
}

func TestLoad_OverridesRunBeforeValidation(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvAuthToken, "env-token")

	cfg, err := Load("", func(c *Config) {
		c.APIKey = "from-flag"
		c.Endpoint = "http://localhost/rest/"
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "from-flag" || cfg.AuthToken != "env-token" {
		t.Fatalf("credentials = %q/%q", cfg.APIKey, cfg.AuthToken)
	}
	if cfg.Endpoint != "http://localhost/rest/" || cfg.UploadEndpoint != DefaultUploadEndpoint {
		t.Fatalf("endpoints = %q %q", cfg.Endpoint, cfg.UploadEndpoint)
	}
	if os.Getenv(EnvAPIKey) != "" {
		t.Fatal("override leaked into the environment")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvAuthToken, "")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("api_key: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}

	if _, err := Load(""); err == nil {
		t.Fatal("expected error when no API key is available")
	}
}
