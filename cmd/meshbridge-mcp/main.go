package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"meshbridge/internal/adapters/filesystem"
	mcpadapter "meshbridge/internal/adapters/mcp"
	"meshbridge/internal/adapters/sqlite"
	"meshbridge/internal/application"
	"meshbridge/internal/application/commands"
	"meshbridge/internal/config"
)

func main() {
	configFlag := flag.String("config", config.ConfigPath(), "path to the config file")
	verboseFlag := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	// stdout carries the protocol; logs go to stderr
	logger := config.NewLogger(os.Stderr, *verboseFlag)

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("meshbridge-mcp: %v", err)
	}

	store := filesystem.NewMappingStore(logger)
	mapping, err := commands.NewLoadMappingCommand(store, cfg.MappingPath).Execute(context.Background())
	if err != nil {
		log.Fatalf("meshbridge-mcp: %v", err)
	}

	// Lookup and synthesis work from the mapping alone
	catalog := sqlite.OpenOptional(cfg.MaterialsRoot, logger)
	if catalog != nil {
		defer catalog.Close()
	}

	tools := mcpadapter.NewTools(mcpadapter.Deps{
		Cache:   application.NewMappingCache(mapping),
		Catalog: catalog,
		Rebuild: commands.NewBuildIndexCommand(
			filesystem.NewMaterialScanner(cfg.MaterialExt, logger),
			store, catalog, cfg.MaterialsRoot, cfg.MappingPath,
		),
		Artifacts:   filesystem.NewArtifacts(),
		NodeOptions: cfg.NodeOptions(),
	})

	mcpServer := server.NewMCPServer(
		"meshbridge-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, tools)
	mcpadapter.RegisterWriteTools(mcpServer, tools)

	logger.Info("serving MCP over stdio", "materials", mapping.Len())
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
