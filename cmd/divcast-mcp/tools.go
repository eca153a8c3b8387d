package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

const tickerHelp = "Ticker, optionally exchange qualified (KO, NYSE:KO, CBA.AU, ASX:CBA)"

// createGetDividendReportTool returns the get_dividend_report tool definition
func createGetDividendReportTool() mcp.Tool {
	return mcp.NewTool("get_dividend_report",
		mcp.WithDescription("Full dividend research report: company info, rate and payout ratio, cadence, ex-date to payment gap, last payment and projected dates"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description(tickerHelp),
		),
		mcp.WithBoolean("refresh",
			mcp.Description("Fetch fresh market data instead of using cached inputs (default: false)"),
		),
	)
}

// createGetDividendReportsTool returns the get_dividend_reports tool definition
func createGetDividendReportsTool() mcp.Tool {
	return mcp.NewTool("get_dividend_reports",
		mcp.WithDescription("Summary dividend reports for several tickers"),
		mcp.WithArray("tickers",
			mcp.Required(),
			mcp.WithStringItems(),
			mcp.Description("Tickers to research (max 50)"),
		),
		mcp.WithBoolean("paying_only",
			mcp.Description("Drop tickers without a detectable dividend cadence"),
		),
	)
}

// createGetFutureDividendsTool returns the get_future_dividends tool definition
func createGetFutureDividendsTool() mcp.Tool {
	return mcp.NewTool("get_future_dividends",
		mcp.WithDescription("Projected upcoming dividend payment dates"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description(tickerHelp),
		),
	)
}

// createGetLastDividendTool returns the get_last_dividend tool definition
func createGetLastDividendTool() mcp.Tool {
	return mcp.NewTool("get_last_dividend",
		mcp.WithDescription("Most recent dividend payment date and amount, with the estimation method used"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description(tickerHelp),
		),
	)
}
