// Package types defines the request and result types shared by the server,
// the CLI and the gRPC wire codec.
//
// They are plain JSON-tagged structs. The fuzzy engine itself never sees
// them; pkg/wellness converts between these types and engine inputs.
package types
