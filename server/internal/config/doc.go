// Package config loads the `server:` section of the fuzzwell config file.
//
// Config fields:
//   - HTTPPort              REST API, HTML form, /metrics, WebSocket (default 8080)
//   - GRPCPort              gRPC WellnessService (default 50051)
//   - LogLevel              debug | info | warn | error (default info)
//   - Auth.Mode             "apikey" or "none"
//   - Auth.KeyEnv           environment variable holding the expected API key
//   - Auth.Header           gRPC metadata/HTTP header name (default "x-api-key")
//   - Inference.NoRuleFired "error" or "midpoint" (default error)
//   - Sampling.Seed         level sampler seed; 0 seeds from the clock
//   - Plots.*               chart cache size and canvas size
//   - Recommendations       advice rules replacing the built-in list
//
// Load(path) applies defaults before unmarshalling, then validates, so a
// loaded Config always yields a valid Level, Policy and Advisor.
//
// Watch(ctx, path, onChange) reloads the file when it changes. LogLevel,
// Inference and Recommendations take effect on reload; ports and auth need
// a restart.
package config
