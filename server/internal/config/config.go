package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

// Default values for the server configuration.
const (
	DefaultGRPCPort      = 50051
	DefaultHTTPPort      = 8080
	DefaultLogLevel      = "info"
	DefaultPlotCacheSize = 32
	DefaultPlotWidthIn   = 6.0
	DefaultPlotHeightIn  = 4.0
	DefaultPlotDPI       = 96
	DefaultAuthHeader    = "x-api-key"
	DefaultNoRuleFired   = "error"
	DefaultHistoryTTL    = time.Duration(0)
)

// Config holds the `server:` section of the config file.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort serves the REST API, the HTML form, /metrics and the
	// WebSocket endpoint (default 8080).
	HTTPPort int `yaml:"http_port"`

	// GRPCPort serves WellnessService (default 50051).
	GRPCPort int `yaml:"grpc_port"`

	// LogLevel is one of debug | info | warn | error. Reloadable.
	LogLevel string `yaml:"log_level"`

	Auth      AuthConfig      `yaml:"auth"`
	Inference InferenceConfig `yaml:"inference"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Plots     PlotsConfig     `yaml:"plots"`
	History   HistoryConfig   `yaml:"history"`

	// Recommendations replaces the built-in advice rules when non-empty.
	// Reloadable.
	Recommendations []wellness.AdviceRule `yaml:"recommendations"`
}

// AuthConfig controls client authentication on the HTTP API and gRPC.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected API key.
	KeyEnv string `yaml:"key_env"`

	// Header is the gRPC metadata key and HTTP header name carrying the key.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return DefaultAuthHeader
}

// InferenceConfig tunes how engine failures are surfaced.
type InferenceConfig struct {
	// NoRuleFired is "error" (surface the failure) or "midpoint" (score the
	// middle of the wellness range and flag the result). Reloadable.
	NoRuleFired string `yaml:"no_rule_fired"`
}

// SamplingConfig seeds the level sampler.
type SamplingConfig struct {
	// Seed for the sampler; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// PlotsConfig sizes and caches rendered membership charts.
type PlotsConfig struct {
	CacheSize int     `yaml:"cache_size"`
	WidthIn   float64 `yaml:"width_in"`
	HeightIn  float64 `yaml:"height_in"`
	DPI       int     `yaml:"dpi"`
}

// HistoryConfig controls the in-memory evaluation history.
type HistoryConfig struct {
	// TTL is how long evaluations stay listed. The default 0 disables the
	// history: it exposes every caller's inputs to anyone who can reach
	// /api/, so enable it only for single-user or keyed deployments.
	TTL time.Duration `yaml:"ttl"`
}

// Level parses LogLevel. Validation guarantees it succeeds for a loaded Config.
func (s ServerConfig) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Policy returns the no-rule-fired policy.
func (s ServerConfig) Policy() wellness.Policy {
	p, _ := wellness.ParsePolicy(s.Inference.NoRuleFired)
	return p
}

// Advisor builds the recommendation rules: the configured list, or the
// built-in one when none is configured.
func (s ServerConfig) Advisor() (*wellness.Advisor, error) {
	if len(s.Recommendations) == 0 {
		return wellness.NewAdvisor(wellness.DefaultAdvice())
	}
	return wellness.NewAdvisor(s.Recommendations)
}

// Load reads and parses the config file at path, returning the server configuration.
// Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse is Load without the file read.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}
	return cfg, nil
}

// Defaults returns a Config pre-populated with default values. The server
// runs on it when no config file is given.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			GRPCPort: DefaultGRPCPort,
			HTTPPort: DefaultHTTPPort,
			LogLevel: DefaultLogLevel,
			Auth:     AuthConfig{Mode: "none", Header: DefaultAuthHeader},
			Inference: InferenceConfig{
				NoRuleFired: DefaultNoRuleFired,
			},
			Plots: PlotsConfig{
				CacheSize: DefaultPlotCacheSize,
				WidthIn:   DefaultPlotWidthIn,
				HeightIn:  DefaultPlotHeightIn,
				DPI:       DefaultPlotDPI,
			},
			History: HistoryConfig{TTL: DefaultHistoryTTL},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := cfg.Server
	if s.GRPCPort <= 0 || s.GRPCPort > 65535 {
		return fmt.Errorf("server.grpc_port %d is out of range [1, 65535]", s.GRPCPort)
	}
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	if s.GRPCPort == s.HTTPPort {
		return fmt.Errorf("server.grpc_port and server.http_port are both %d", s.GRPCPort)
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", s.LogLevel)
	}

	switch s.Auth.Mode {
	case "none", "":
	case "apikey":
		if s.Auth.KeyEnv == "" {
			return fmt.Errorf("server.auth.key_env is required when auth.mode is apikey")
		}
		if s.Auth.Key() == "" {
			return fmt.Errorf("server.auth.key_env: environment variable %s is unset or empty", s.Auth.KeyEnv)
		}
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", s.Auth.Mode)
	}

	if _, err := wellness.ParsePolicy(s.Inference.NoRuleFired); err != nil {
		return fmt.Errorf("server.inference: %w", err)
	}

	if s.Plots.CacheSize < 0 {
		return fmt.Errorf("server.plots.cache_size must not be negative")
	}
	if s.Plots.WidthIn <= 0 || s.Plots.HeightIn <= 0 || s.Plots.DPI <= 0 {
		return fmt.Errorf("server.plots: width_in, height_in and dpi must be positive")
	}

	if s.History.TTL < 0 {
		return fmt.Errorf("server.history.ttl must not be negative")
	}

	if _, err := s.Advisor(); err != nil {
		return fmt.Errorf("server.recommendations: %w", err)
	}
	return nil
}
