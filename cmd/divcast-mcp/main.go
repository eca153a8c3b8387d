package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ternarybob/divcast/internal/app"
	"github.com/ternarybob/divcast/internal/common"
)

func main() {
	common.InstallCrashHandler("")
	defer common.RecoverWithCrashFile()

	configPath := os.Getenv("DIVCAST_CONFIG")
	if configPath == "" {
		configPath = "divcast.toml"
	}

	var paths []string
	if _, err := os.Stat(configPath); err == nil {
		paths = append(paths, configPath)
	}

	config, err := common.LoadFromFiles(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol, so logs only go to file
	config.Logging.Output = []string{"file"}
	if config.Logging.File == "" || config.Logging.File == "divcast.log" {
		config.Logging.File = "divcast-mcp.log"
	}
	config.Logging.File = filepath.Base(config.Logging.File)
	logger := common.InitLogger(config)

	application, err := app.New(config, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	mcpServer := server.NewMCPServer(
		"divcast",
		common.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	svc := application.ResearchService
	mcpServer.AddTool(createGetDividendReportTool(), handleGetDividendReport(svc, logger))
	mcpServer.AddTool(createGetDividendReportsTool(), handleGetDividendReports(svc, logger))
	mcpServer.AddTool(createGetFutureDividendsTool(), handleGetFutureDividends(svc, logger))
	mcpServer.AddTool(createGetLastDividendTool(), handleGetLastDividend(svc, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error().Err(err).Msg("MCP server failed")
		application.Close()
		os.Exit(1)
	}
}
