// Package wellnessrpc defines the gRPC WellnessService without generated
// protobuf code.
//
// Messages are the JSON-tagged structs of pkg/types carried by a JSON codec
// registered under the content-subtype "json". The service descriptor is
// written by hand in the shape protoc-gen-go-grpc would produce:
//
//	fuzzwell.v1.WellnessService/Evaluate  (unary)
//
// NewWellnessClient forces the JSON subtype on every call, so a plain
// grpc.ClientConn works without extra dial options.
package wellnessrpc
