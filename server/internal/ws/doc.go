// Package ws implements the WebSocket endpoint of fuzzwell-server.
//
// New(runner) creates a Hub. Hub.Run(ctx) blocks until ctx is cancelled, then
// closes all active connections. Hub.ServeHTTP upgrades a connection, sends
// {"event":"ready"} and then answers each text frame, decoded as an
// EvaluateRequest, with one message:
//
//	{"event": "evaluation", "data": { /* same schema as POST /api/v1/evaluate */ }}
//	{"event": "error",      "error": "missing input: \"exercise\""}
//
// Connections share nothing: a client receives replies to its own frames and
// never another caller's evaluation.
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The endpoint is mounted at /ws/evaluate by the server, behind
// the same API key check as /api/ when auth.mode is apikey.
package ws
