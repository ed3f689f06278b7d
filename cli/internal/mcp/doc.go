// Package mcp exposes the wellness model as a Model Context Protocol tool
// server over stdio (`fuzzwell mcp`).
//
// Tools:
//
//	evaluate_wellness  score one set of inputs; numbers or level names
//	describe_system    variables, Gaussian sets and rules
//	list_categories    level names and their sampling ranges
//
// Evaluation failures come back as tool results with IsError set, not as
// JSON-RPC errors, so the calling agent sees the message.
package mcp
