// Package auth provides API key authentication for fuzzwell-server.
//
// APIKeyInterceptor(mode, header, key) returns a gRPC UnaryServerInterceptor
// that validates the key from the named metadata header. RequireAPIKey does
// the same for HTTP requests under a set of path prefixes.
//
// When mode != "apikey", everything passes through (local development with
// auth disabled). In apikey mode an empty expected key rejects every request
// rather than opening the door. Keys are compared in constant time.
package auth
