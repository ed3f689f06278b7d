package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

// tools holds the state shared by the tool handlers.
type tools struct {
	eval *wellness.Evaluator
}

// handleEvaluate runs one evaluation and returns it as JSON.
func (t *tools) handleEvaluate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)

	req := types.EvaluateRequest{
		CaloriesLevel:  stringArg(args, "calories_level", ""),
		IntensityLevel: stringArg(args, "intensity_level", ""),
	}
	for _, f := range []struct {
		key string
		dst **float64
	}{
		{wellness.VarCalories, &req.Calories},
		{wellness.VarExercise, &req.Exercise},
		{wellness.VarSleep, &req.Sleep},
		{wellness.VarIntensity, &req.Intensity},
	} {
		v, err := numberArg(args, f.key)
		if err != nil {
			return errResult(err.Error()), nil
		}
		*f.dst = v
	}

	a, err := t.eval.Run(req)
	if err != nil {
		return errResult(fmt.Sprintf("evaluation failed: %v", err)), nil
	}
	return jsonResult(a.Evaluation())
}

// handleDescribe returns the variables and rules of the model.
func (t *tools) handleDescribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(wellness.Describe(t.eval.System()))
}

// handleCategories returns the sampling levels.
func (t *tools) handleCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(wellness.Categories())
}

// getArgs safely extracts the arguments map from a CallToolRequest.
// Returns an empty map if Arguments is nil or not a map.
func getArgs(request mcp.CallToolRequest) map[string]interface{} {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

// stringArg extracts a string argument with a default value.
func stringArg(args map[string]interface{}, key, defaultVal string) string {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return defaultVal
	}
	return s
}

// numberArg extracts an optional numeric argument. Absent or null yields nil.
func numberArg(args map[string]interface{}, key string) (*float64, error) {
	val, ok := args[key]
	if !ok || val == nil {
		return nil, nil
	}
	switch n := val.(type) {
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("%s: %v", key, err)
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("%s must be a number, got %T", key, val)
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
	}
	return newTextResult(string(data)), nil
}

// newTextResult creates a successful MCP tool result with text content.
func newTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// errResult creates an MCP tool error result (IsError=true).
// This is returned as a tool-level error, not a transport-level JSON-RPC error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: msg,
			},
		},
	}
}
