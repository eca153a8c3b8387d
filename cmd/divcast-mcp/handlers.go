package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/divcast/internal/common"
	"github.com/ternarybob/divcast/internal/handlers"
	"github.com/ternarybob/divcast/internal/services/research"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	result := textResult(text)
	result.IsError = true
	return result
}

// researchTicker runs a single lookup, returning a tool error result on failure.
func researchTicker(ctx context.Context, svc handlers.Researcher, logger arbor.ILogger, request mcp.CallToolRequest, refresh bool) (*research.Report, *mcp.CallToolResult) {
	ticker, err := request.RequireString("ticker")
	if err != nil || ticker == "" {
		return nil, errorResult("Error: ticker parameter is required")
	}

	var report *research.Report
	if refresh {
		report, err = svc.Refresh(ctx, ticker)
	} else {
		report, err = svc.Research(ctx, ticker)
	}
	if err != nil {
		logger.Warn().Err(err).Str("ticker", ticker).Msg("Research failed")
		return nil, errorResult(fmt.Sprintf("Research error for %s: %v", ticker, err))
	}
	return report, nil
}

// handleGetDividendReport implements the get_dividend_report tool
func handleGetDividendReport(svc handlers.Researcher, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, failed := researchTicker(ctx, svc, logger, request, request.GetBool("refresh", false))
		if failed != nil {
			return failed, nil
		}
		return textResult(formatReport(report)), nil
	}
}

// handleGetDividendReports implements the get_dividend_reports tool
func handleGetDividendReports(svc handlers.Researcher, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tickers := common.RawTickers(common.ParseTickers(request.GetStringSlice("tickers", nil)))
		if len(tickers) == 0 {
			return errorResult("Error: tickers parameter is required"), nil
		}
		if len(tickers) > handlers.MaxBatchTickers {
			return errorResult(fmt.Sprintf("Error: at most %d tickers per call", handlers.MaxBatchTickers)), nil
		}

		reports, err := svc.ResearchBatch(ctx, tickers)
		if err != nil {
			logger.Warn().Err(err).Int("count", len(tickers)).Msg("Batch research failed")
			return errorResult(fmt.Sprintf("Research error: %v", err)), nil
		}
		if request.GetBool("paying_only", false) {
			reports = research.DividendPayingOnly(reports)
		}
		return textResult(formatReportTable(reports)), nil
	}
}

// handleGetFutureDividends implements the get_future_dividends tool
func handleGetFutureDividends(svc handlers.Researcher, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, failed := researchTicker(ctx, svc, logger, request, false)
		if failed != nil {
			return failed, nil
		}
		return textResult(formatFutureDates(report)), nil
	}
}

// handleGetLastDividend implements the get_last_dividend tool
func handleGetLastDividend(svc handlers.Researcher, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, failed := researchTicker(ctx, svc, logger, request, false)
		if failed != nil {
			return failed, nil
		}
		return textResult(formatLastDividend(report)), nil
	}
}
