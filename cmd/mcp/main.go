package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/povarna/mf-faq-agent/internal/config"
	"github.com/povarna/mf-faq-agent/internal/mcpadapter"
	"github.com/povarna/mf-faq-agent/internal/setup"
	"github.com/povarna/mf-faq-agent/internal/setup/logger"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load env
	_ = godotenv.Load()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	rules, err := config.LoadRules()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load rules config")
	}

	appLogger := logger.New(settings.LogLevel)

	deps, err := setup.Wire(ctx, settings, rules, &appLogger)
	if err != nil {
		appLogger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	server := createMCPServer(deps)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			appLogger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		appLogger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "mf-faq-agent",
			Version: "1.0.0",
		}, nil,
	)

	// Add Tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_fund_question",
		Description: "Answer a factual question about SBI Mutual Fund schemes (expense ratio, exit load, minimum SIP, lock-in, riskometer, benchmark, NAV, AUM, statements)",
	}, mcpadapter.NewAskHandler(deps.Orchestrator))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_schemes",
		Description: "List the mutual fund schemes the agent has factual data for",
	}, mcpadapter.NewListSchemesHandler(deps.Resolver))

	return server
}
