package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/divcast/internal/services/research"
)

func fmtFloat(v *float64, format string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf(format, *v)
}

func fmtPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

// formatReport formats a full report as markdown
func formatReport(r *research.Report) string {
	var sb strings.Builder
	info := r.BasicInfo
	div := r.DividendInfo

	sb.WriteString(fmt.Sprintf("# %s (%s)\n\n", info.Name, r.Symbol))
	sb.WriteString(fmt.Sprintf("**Sector:** %s / %s\n", info.Sector, info.Industry))
	sb.WriteString(fmt.Sprintf("**Exchange:** %s  **Currency:** %s\n", info.Exchange, info.Currency))
	sb.WriteString(fmt.Sprintf("**Price:** %s  **Market cap:** %s\n\n", fmtFloat(info.Price, "%.2f"), fmtFloat(info.MarketCap, "%.0f")))

	if !r.Status.IsDividendStock {
		sb.WriteString("No regular dividend history found.\n\n")
	}

	sb.WriteString("## Dividends\n\n")
	sb.WriteString("| Field | Value | Method |\n|---|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Annual rate | %s | %s |\n", fmtFloat(div.DividendRate, "%.4f"), div.RateMethod))
	sb.WriteString(fmt.Sprintf("| Yield | %s | |\n", fmtPercent(div.DividendYield)))
	sb.WriteString(fmt.Sprintf("| Payout ratio | %s | %s |\n", fmtPercent(div.PayoutRatio), div.RatioMethod))
	sb.WriteString(fmt.Sprintf("| Frequency | %s | |\n", orNA(string(r.Metrics.Frequency))))
	sb.WriteString(fmt.Sprintf("| Ex-dividend date | %s | |\n", orNA(div.ExDividendDate)))
	sb.WriteString(fmt.Sprintf("| Ex-date to payment gap | %d days | %s (%s) |\n", r.Metrics.Gap.GapDays, r.Metrics.Gap.Method, r.Metrics.Gap.Confidence))
	sb.WriteString("\n")

	sb.WriteString(formatLastDividend(r))
	sb.WriteString("\n")
	sb.WriteString(formatFutureDates(r))

	sb.WriteString(fmt.Sprintf("\n_Run %s, inputs fetched %s", r.RunID, r.FetchedAt.Format("2006-01-02 15:04 MST")))
	if r.FromCache {
		sb.WriteString(" (cached)")
	}
	sb.WriteString("_\n")
	return sb.String()
}

// formatLastDividend formats the most recent payment estimate
func formatLastDividend(r *research.Report) string {
	var sb strings.Builder
	last := r.LastDividend
	sb.WriteString(fmt.Sprintf("## Last dividend for %s\n\n", r.Symbol))
	sb.WriteString(fmt.Sprintf("**Date:** %s\n", orNA(last.DateString())))
	sb.WriteString(fmt.Sprintf("**Amount:** %s\n", fmtFloat(last.Amount, "%.4f")))
	sb.WriteString(fmt.Sprintf("**Method:** %s\n", last.Method))
	return sb.String()
}

// formatFutureDates formats projected payment dates
func formatFutureDates(r *research.Report) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Projected payments for %s\n\n", r.Symbol))
	if len(r.FutureDates) == 0 {
		sb.WriteString("No projection available.\n")
		return sb.String()
	}
	for _, d := range r.FutureDates {
		sb.WriteString(fmt.Sprintf("- %s\n", d))
	}
	return sb.String()
}

// formatReportTable formats several reports as one markdown table
func formatReportTable(reports []*research.Report) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Dividend summary (%d tickers)\n\n", len(reports)))
	if len(reports) == 0 {
		sb.WriteString("No results.\n")
		return sb.String()
	}

	sb.WriteString("| Symbol | Name | Frequency | Rate | Yield | Last paid | Next projected |\n")
	sb.WriteString("|---|---|---|---|---|---|---|\n")
	for _, r := range reports {
		if r.Status.HasError {
			sb.WriteString(fmt.Sprintf("| %s | error: %s | | | | | |\n", r.Symbol, r.Error))
			continue
		}
		next := "n/a"
		if len(r.FutureDates) > 0 {
			next = r.FutureDates[0]
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
			r.Symbol,
			r.BasicInfo.Name,
			orNA(string(r.Metrics.Frequency)),
			fmtFloat(r.DividendInfo.DividendRate, "%.4f"),
			fmtPercent(r.DividendInfo.DividendYield),
			orNA(r.LastDividend.DateString()),
			next,
		))
	}
	return sb.String()
}
