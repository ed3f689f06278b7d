// Package api implements the HTTP REST API for fuzzwell-server.
//
// New(opts) returns a Handler that serves:
//
//	GET  /api/v1/health               status, rule and variable counts
//	POST /api/v1/evaluate             EvaluateRequest in, Evaluation plus hints out
//	GET  /api/v1/system               variables (universe, sets) and rules
//	GET  /api/v1/categories           sampling levels per variable
//	GET  /api/v1/plots/{variable}.png membership chart, LRU cached
//	GET  /api/v1/evaluations          recent evaluations, newest first (?limit=N)
//	GET  /api/v1/evaluations/{id}     one stored evaluation plus hints
//
// The evaluations routes exist only when Options.History is set.
//
// All JSON endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for the wrong method
//   - Report errors as {"error": "..."}
//
// Evaluation errors map to 422 when caused by the inputs (missing, unknown or
// non-finite values, unknown level names) or when no rule fired under the
// "error" policy. A body that is not valid JSON is 400.
//
// explain.go turns an evaluation into ordered hints: fallback first, then
// out-of-range inputs and weak evidence, then the firing rules strongest
// first.
package api
