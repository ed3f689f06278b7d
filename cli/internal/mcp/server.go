package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fuzzwell/fuzzwell/pkg/wellness"
)

// Server wraps the MCP server instance.
type Server struct {
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server whose tools evaluate with eval.
func NewServer(version string, eval *wellness.Evaluator) *Server {
	s := server.NewMCPServer("fuzzwell", version, server.WithLogging())
	registerTools(s, &tools{eval: eval})
	return &Server{mcpServer: s}
}

// Start runs the server in stdio mode (blocking).
func (s *Server) Start(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.mcpServer)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools adds all supported tools to the server.
func registerTools(s *server.MCPServer, t *tools) {
	evaluateTool := mcp.NewTool("evaluate_wellness",
		mcp.WithDescription("Score a day's lifestyle data 0-100 with the fuzzy wellness model. Returns score, band, per-rule firing strengths and recommendations as JSON. Give each of calories/wintensity either as a number or as a level."),
		mcp.WithNumber("calories",
			mcp.Description("Daily calorie intake in kcal (model range 1000-4000)"),
		),
		mcp.WithString("calories_level",
			mcp.Description("Calorie level to sample when calories is omitted"),
			mcp.Enum(levelNames(wellness.VarCalories)...),
		),
		mcp.WithNumber("exercise",
			mcp.Required(),
			mcp.Description("Exercise duration in minutes (0-180)"),
		),
		mcp.WithNumber("sleep",
			mcp.Required(),
			mcp.Description("Sleep in hours (0-12)"),
		),
		mcp.WithNumber("wintensity",
			mcp.Description("Workout intensity 0-10"),
		),
		mcp.WithString("intensity_level",
			mcp.Description("Intensity level to sample when wintensity is omitted"),
			mcp.Enum(levelNames(wellness.VarIntensity)...),
		),
	)
	s.AddTool(evaluateTool, t.handleEvaluate)

	describeTool := mcp.NewTool("describe_system",
		mcp.WithDescription("List the model's linguistic variables (ranges and Gaussian sets) and its rules."),
	)
	s.AddTool(describeTool, t.handleDescribe)

	categoriesTool := mcp.NewTool("list_categories",
		mcp.WithDescription("List the named levels accepted by calories_level and intensity_level with their sampling ranges."),
	)
	s.AddTool(categoriesTool, t.handleCategories)
}

func levelNames(variable string) []string {
	var out []string
	for _, r := range wellness.Levels(variable) {
		out = append(out, r.Level)
	}
	return out
}
