package research

import (
	"time"

	"github.com/ternarybob/divcast/internal/dividend"
)

const unknown = "?"

// BasicInfo is the descriptive part of a report. Unknown text fields are "?".
type BasicInfo struct {
	Name      string   `json:"name"`
	ShortName string   `json:"short_name"`
	Symbol    string   `json:"symbol"`
	Sector    string   `json:"sector"`
	Industry  string   `json:"industry"`
	Currency  string   `json:"currency"`
	Exchange  string   `json:"exchange"`
	QuoteType string   `json:"quote_type"`
	MarketCap *float64 `json:"market_cap"`
	Price     *float64 `json:"price"`
}

// Status flags summarise what data was available.
type Status struct {
	HasDividends    bool `json:"has_dividends"`
	HasCalendar     bool `json:"has_calendar"`
	HasBasicInfo    bool `json:"has_basic_info"`
	HasError        bool `json:"has_error"`
	IsDividendStock bool `json:"is_dividend_stock"`
}

// CalendarDates is the provider calendar rendered as ISO dates.
type CalendarDates struct {
	ExDividendDate string `json:"ex_dividend_date,omitempty"`
	DividendDate   string `json:"dividend_date,omitempty"`
}

// Metrics are the intermediate analysis values.
type Metrics struct {
	Frequency          dividend.Frequency         `json:"frequency"`
	AverageInterval    float64                    `json:"average_interval_days"`
	Gap                dividend.GapResult         `json:"gap"`
	Pattern            dividend.ExDividendPattern `json:"pattern"`
	StalenessThreshold float64                    `json:"staleness_threshold"`
}

// Report is the full research output for one ticker.
type Report struct {
	RunID        string                `json:"run_id"`
	Ticker       string                `json:"ticker"`
	Symbol       string                `json:"symbol"`
	GeneratedAt  time.Time             `json:"generated_at"`
	FetchedAt    time.Time             `json:"fetched_at"`
	DurationMs   int64                 `json:"duration_ms"`
	FromCache    bool                  `json:"from_cache"`
	BasicInfo    BasicInfo             `json:"basic_info"`
	DividendInfo dividend.DividendInfo `json:"dividend_info"`
	Metrics      Metrics               `json:"metrics"`
	LastDividend dividend.LastDividend `json:"last_dividend"`
	FutureDates  []string              `json:"future_dates"`
	Calendar     CalendarDates         `json:"calendar"`
	Status       Status                `json:"status"`
	Error        string                `json:"error,omitempty"`
}

func buildBasicInfo(symbol string, info dividend.StockInfo) BasicInfo {
	out := BasicInfo{
		Name:      info.String("longName", info.String("shortName", unknown)),
		ShortName: info.String("shortName", unknown),
		Symbol:    info.String("symbol", symbol),
		Sector:    info.String("sector", unknown),
		Industry:  info.String("industry", unknown),
		Currency:  info.String("currency", unknown),
		Exchange:  info.String("exchange", unknown),
		QuoteType: info.String("quoteType", unknown),
	}
	if v, ok := info.Float("marketCap"); ok {
		out.MarketCap = &v
	}
	if v, ok := info.Price(); ok {
		out.Price = &v
	}
	return out
}

func buildCalendarDates(c dividend.Calendar) CalendarDates {
	var out CalendarDates
	if c.ExDividendDate != nil {
		out.ExDividendDate = c.ExDividendDate.Format(time.DateOnly)
	}
	if c.DividendDate != nil {
		out.DividendDate = c.DividendDate.Format(time.DateOnly)
	}
	return out
}

// buildReport fills the analysis sections of r from inputs.
func buildReport(r *Report, analyzer *dividend.Analyzer, inputs dividend.Inputs) {
	analysis := analyzer.Analyze(inputs)

	r.BasicInfo = buildBasicInfo(r.Symbol, inputs.Info)
	r.DividendInfo = analysis.DividendInfo()
	r.Metrics = Metrics{
		Frequency:          analysis.Frequency,
		AverageInterval:    analysis.AvgInterval,
		Gap:                analysis.Gap,
		Pattern:            analysis.Pattern,
		StalenessThreshold: analysis.Staleness,
	}
	r.LastDividend = analysis.LastDividend()
	r.FutureDates = analysis.FutureDates()
	if r.FutureDates == nil {
		r.FutureDates = []string{}
	}
	r.Calendar = buildCalendarDates(inputs.Calendar)
	r.Status = Status{
		HasDividends:    len(inputs.Series) > 0,
		HasCalendar:     !inputs.Calendar.IsEmpty(),
		HasBasicInfo:    len(inputs.Info) > 0,
		IsDividendStock: analysis.Frequency != dividend.FrequencyNone,
	}
}
