package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names.
const (
	ToolDetectSmells    = "detect_smells"
	ToolLocateSmells    = "locate_smells"
	ToolModelAccuracies = "model_accuracies"
	ToolGetReport       = "get_report"
	ToolExplainCode     = "explain_code"
)

// RegisterTools registers all pysmell MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	s.AddTool(mcp.NewTool(ToolDetectSmells,
		mcp.WithDescription("Detect code smells in Python files by combining a trained classifier, long method / large class detection and pylint"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a Python file or directory")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively analyze directories (default: true)")),
		mcp.WithNumber("long_method_lines",
			mcp.Description("Function length in lines at which a method is long (default: 12)")),
		mcp.WithNumber("class_methods",
			mcp.Description("Method count above which a class is large (default: 4)")),
		mcp.WithNumber("class_lines",
			mcp.Description("Line count above which a class is large (default: 25)")),
		mcp.WithBoolean("save",
			mcp.Description("Save one report per file to the results directory (default: false)")),
		mcp.WithString("output_mode",
			mcp.Enum("summary", "full"),
			mcp.Description("summary returns status and counts per file, full returns every report (default: summary)")),
	), h.HandleDetectSmells)

	s.AddTool(mcp.NewTool(ToolLocateSmells,
		mcp.WithDescription("Find long methods and large classes without running the classifier or the linter"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a Python file or directory")),
		mcp.WithNumber("long_method_lines",
			mcp.Description("Function length in lines at which a method is long (default: 10)")),
		mcp.WithNumber("class_methods",
			mcp.Description("Method count above which a class is large (default: 8)")),
		mcp.WithNumber("class_lines",
			mcp.Description("Line count above which a class is large (default: 50)")),
	), h.HandleLocateSmells)

	s.AddTool(mcp.NewTool(ToolModelAccuracies,
		mcp.WithDescription("Return the accuracy of every trained model; the most accurate one is used for prediction"),
	), h.HandleModelAccuracies)

	s.AddTool(mcp.NewTool(ToolGetReport,
		mcp.WithDescription("Return the saved report for a previously analyzed file"),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Analyzed file path or name")),
	), h.HandleGetReport)

	s.AddTool(mcp.NewTool(ToolExplainCode,
		mcp.WithDescription("Ask the configured AI model to explain, optimize or refactor Python code"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Python source code")),
		mcp.WithString("mode",
			mcp.Enum("explain", "optimize", "refactor"),
			mcp.Description("What to ask for (default: explain)")),
		mcp.WithString("smell",
			mcp.Description("Smell to fix in refactor mode")),
	), h.HandleExplainCode)
}
