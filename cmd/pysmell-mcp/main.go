package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/pysmell/internal/config"
	"github.com/ludo-technologies/pysmell/internal/logging"
	"github.com/ludo-technologies/pysmell/internal/version"
	"github.com/ludo-technologies/pysmell/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

const serverName = "pysmell"

func main() {
	configPath := flag.StringP("config", "c", os.Getenv("PYSMELL_CONFIG"), "Configuration file path")
	verbose := flag.BoolP("verbose", "v", false, "Enable debug logging")
	logJSON := flag.Bool("log-json", false, "Log as JSON")
	flag.Parse()

	// Logs go to stderr; stdout carries JSON-RPC.
	logger, err := logging.New(logging.Options{Verbose: *verbose, JSON: *logJSON})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cwd, err := os.Getwd()
	if err != nil {
		logger.Fatal("failed to resolve working directory", zap.Error(err))
	}
	cfg, err := config.LoadConfig(*configPath, cwd)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	deps, err := mcp.NewDependencies(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize dependencies", zap.Error(err))
	}

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)
	mcp.RegisterTools(server, mcp.NewHandlerSet(deps))

	logger.Info("starting MCP server",
		zap.String("name", serverName),
		zap.String("version", version.Short()),
		zap.String("config", cfg.Path),
		zap.Strings("tools", []string{
			mcp.ToolDetectSmells,
			mcp.ToolLocateSmells,
			mcp.ToolModelAccuracies,
			mcp.ToolGetReport,
			mcp.ToolExplainCode,
		}))

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
