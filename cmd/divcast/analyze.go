package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/divcast/internal/app"
	"github.com/ternarybob/divcast/internal/common"
	"github.com/ternarybob/divcast/internal/services/research"
)

func runAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	payingOnly := fs.Bool("paying-only", false, "Only print tickers with a detectable dividend cadence")
	noCache := fs.Bool("no-cache", false, "Ignore cached inputs for this run")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if len(common.ParseTickers(fs.Args())) == 0 {
		fmt.Fprintln(os.Stderr, "analyze: at least one ticker is required")
		return 2
	}

	application, err := app.New(config, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize application")
		return 1
	}
	defer application.Close()

	if *noCache {
		application.Cache.Disable()
	}

	// Parsed again once app.New has applied the configured default exchange.
	tickers := common.RawTickers(common.ParseTickers(fs.Args()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reports, err := application.ResearchService.ResearchBatch(ctx, tickers)
	if err != nil {
		logger.Error().Err(err).Msg("Research interrupted")
		return 1
	}
	if *payingOnly {
		reports = research.DividendPayingOnly(reports)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		logger.Error().Err(err).Msg("Failed to write reports")
		return 1
	}

	for _, r := range reports {
		if r.Status.HasError {
			return 1
		}
	}
	return 0
}
