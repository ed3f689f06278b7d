// Package client is the gRPC client the fuzzwell CLI uses for
// `evaluate --remote`.
//
// Dial(ctx, cfg) opens a lazy connection with transport credentials chosen by
// cfg.Auth.Mode: mtls loads a client certificate (and optional CA), apikey
// and none use plaintext. In apikey mode the key is attached to each call as
// metadata under the configured header.
//
// Client.Evaluate retries transient failures (codes.Unavailable and the like)
// with truncated exponential backoff and ±25% jitter, up to retry_attempts.
// Permanent errors (bad input, no rule fired, authentication) return at once.
package client
