// Package config loads the optional YAML configuration of the fuzzwell CLI.
//
// Load(path) reads the file, fills defaults for any absent field, then
// validates the result:
//
//	client:
//	  server_endpoint: "localhost:50051"
//	  metrics_endpoint: "http://localhost:8080/metrics"
//	  timeout: 10s
//	  retry_attempts: 3
//	  auth:
//	    mode: apikey            # mtls | apikey | none
//	    header: x-api-key
//	    key_env: FUZZWELL_API_KEY
//
// fuzzwell-server listens without TLS. mtls only works against a
// TLS-terminating proxy in front of the gRPC port that checks client
// certificates itself.
//
// Secrets are never stored in the file: key_env names the environment
// variable that holds the key. Command-line flags override file values.
package config
