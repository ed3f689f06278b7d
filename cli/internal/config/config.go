package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultServerEndpoint  = "localhost:50051"
	DefaultMetricsEndpoint = "http://localhost:8080/metrics"
	DefaultTimeout         = 10 * time.Second
	DefaultRetryAttempts   = 3
	DefaultAuthHeader      = "x-api-key"
)

// Config is the top-level configuration of the fuzzwell CLI.
type Config struct {
	Client ClientConfig `yaml:"client"`
}

// ClientConfig holds the settings used when the CLI talks to a server.
type ClientConfig struct {
	// ServerEndpoint is the gRPC address of fuzzwell-server (host:port).
	ServerEndpoint string `yaml:"server_endpoint"`

	// MetricsEndpoint is the full URL of the server's /metrics page.
	MetricsEndpoint string `yaml:"metrics_endpoint"`

	// Timeout bounds one remote call, retries included.
	Timeout time.Duration `yaml:"timeout"`

	// RetryAttempts is how many times a transient gRPC failure is tried
	// (1 = no retry).
	RetryAttempts int `yaml:"retry_attempts"`

	// Auth configures how the CLI authenticates to the server.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig specifies the authentication mode.
type AuthConfig struct {
	// Mode is one of: mtls | apikey | none.
	Mode string `yaml:"mode"`

	// mTLS fields, used when Mode == "mtls". The server has no TLS listener,
	// so this needs a TLS-terminating proxy in front of it.
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
	CAFile   string `yaml:"ca_file"`

	// Header is the gRPC metadata key / HTTP header carrying the API key.
	Header string `yaml:"header"`
	// KeyEnv is the name of the environment variable that holds the key value.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the API key value resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header, or "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return DefaultAuthHeader
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("client config: read file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("client config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("client config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a Config pre-populated with default values. The CLI runs
// on it when no --config is given.
func Defaults() *Config {
	return &Config{
		Client: ClientConfig{
			ServerEndpoint:  DefaultServerEndpoint,
			MetricsEndpoint: DefaultMetricsEndpoint,
			Timeout:         DefaultTimeout,
			RetryAttempts:   DefaultRetryAttempts,
			Auth:            AuthConfig{Mode: "none"},
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	c := cfg.Client
	if c.ServerEndpoint == "" {
		return fmt.Errorf("client.server_endpoint is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be positive")
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("client.retry_attempts must be positive")
	}
	switch c.Auth.Mode {
	case "none", "":
	case "apikey":
		if c.Auth.KeyEnv == "" {
			return fmt.Errorf("client.auth.key_env is required when auth.mode is apikey")
		}
	case "mtls":
		if c.Auth.CertFile == "" || c.Auth.KeyFile == "" {
			return fmt.Errorf("client.auth.cert_file and key_file are required when auth.mode is mtls")
		}
	default:
		return fmt.Errorf("client.auth.mode %q unknown: want mtls|apikey|none", c.Auth.Mode)
	}
	return nil
}
