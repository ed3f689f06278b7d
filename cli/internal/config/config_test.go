package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// loadFromString writes content to a temp file and loads it.
func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := Load(writeFile(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fuzzwell.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	t.Setenv("FW_CLI_KEY", "k-123")
	cfg := loadFromString(t, `
client:
  server_endpoint: "wellness.internal:6000"
  metrics_endpoint: "http://wellness.internal:8080/metrics"
  timeout: 3s
  retry_attempts: 5
  auth:
    mode: apikey
    header: x-fw-key
    key_env: FW_CLI_KEY
`)
	c := cfg.Client
	if c.ServerEndpoint != "wellness.internal:6000" {
		t.Errorf("server_endpoint: got %q", c.ServerEndpoint)
	}
	if c.Timeout != 3*time.Second || c.RetryAttempts != 5 {
		t.Errorf("timeout/retries: got %v/%d", c.Timeout, c.RetryAttempts)
	}
	if c.Auth.Key() != "k-123" || c.Auth.EffectiveHeader() != "x-fw-key" {
		t.Errorf("auth: key %q header %q", c.Auth.Key(), c.Auth.EffectiveHeader())
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, "client: {}\n")
	want := Defaults().Client
	c := cfg.Client
	if c.ServerEndpoint != want.ServerEndpoint || c.MetricsEndpoint != want.MetricsEndpoint {
		t.Errorf("endpoints: got %q %q", c.ServerEndpoint, c.MetricsEndpoint)
	}
	if c.Timeout != DefaultTimeout || c.RetryAttempts != DefaultRetryAttempts {
		t.Errorf("timeout/retries: got %v/%d", c.Timeout, c.RetryAttempts)
	}
	if c.Auth.EffectiveHeader() != DefaultAuthHeader {
		t.Errorf("header: got %q", c.Auth.EffectiveHeader())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"empty endpoint", "client:\n  server_endpoint: \"\"\n", "server_endpoint is required"},
		{"zero timeout", "client:\n  timeout: 0s\n", "timeout must be positive"},
		{"zero retries", "client:\n  retry_attempts: 0\n", "retry_attempts must be positive"},
		{"apikey without env", "client:\n  auth:\n    mode: apikey\n", "key_env is required"},
		{"mtls without cert", "client:\n  auth:\n    mode: mtls\n", "cert_file and key_file"},
		{"unknown mode", "client:\n  auth:\n    mode: bearer\n", `"bearer" unknown`},
		{"bad yaml", "client: [", "parse yaml"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %q, want it to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
