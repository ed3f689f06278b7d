// Package rpc implements wellnessrpc.WellnessServer, the gRPC endpoint of
// fuzzwell-server.
//
// Server.Evaluate runs the request through the shared (instrumented) runner.
// Errors map to status codes:
//
//	missing / unknown / non-finite input, unknown level  codes.InvalidArgument
//	no rule fired (policy "error")                       codes.FailedPrecondition
//	anything else                                        codes.Internal
//
// Authentication is enforced upstream by the gRPC server interceptor (see
// package auth), so the server itself performs no key checks.
package rpc
