// Package dividend estimates dividend payment timing and amounts from sparse
// ex-dividend history, an optional forward calendar and a stock info snapshot.
//
// Every exported operation is total: missing or inconsistent data degrades to
// a sentinel value plus a method string describing which estimation path was
// taken. Nothing in this package performs I/O.
package dividend

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// RecentHistoryDays is the look-back window used for frequency and pattern analysis.
	RecentHistoryDays = 1095

	// MinIntervalsRequired is the minimum number of valid intervals needed to classify frequency.
	MinIntervalsRequired = 2

	// MinSamplesRequired is the minimum number of ex-dividend samples for pattern statistics.
	MinSamplesRequired = 4

	// MaxGapDays is the upper bound of a plausible ex-date to pay-date gap.
	MaxGapDays = 60

	// FallbackGapDays is the gap assumed when there is no direct evidence.
	FallbackGapDays = 34

	// DefaultStaleness is the staleness multiplier used when no interval is known.
	DefaultStaleness = 1.1

	isoDate = "2006-01-02"
)

// Frequency is the cadence class of dividend payments.
type Frequency string

const (
	Monthly    Frequency = "monthly"
	Quarterly  Frequency = "quarterly"
	SemiAnnual Frequency = "semi-annual"
	Annual     Frequency = "annual"

	// FrequencyUnknown means the interval could not be classified.
	FrequencyUnknown Frequency = "unknown"
	// FrequencyInsufficientData means fewer than two valid intervals exist.
	FrequencyInsufficientData Frequency = "insufficient_data"
	// FrequencyNone means the series holds fewer than two events.
	FrequencyNone Frequency = ""
)

// PaymentsPerYear maps each cadence to its expected payment count.
var PaymentsPerYear = map[Frequency]int{
	Monthly:    12,
	Quarterly:  4,
	SemiAnnual: 2,
	Annual:     1,
}

// IntervalRange is a half-open [Lower, Upper) day range mapped to a cadence.
type IntervalRange struct {
	Lower     float64
	Upper     float64
	Frequency Frequency
}

// IntervalRanges is evaluated in order; the first matching range wins.
var IntervalRanges = []IntervalRange{
	{Lower: 0, Upper: 35, Frequency: Monthly},
	{Lower: 35, Upper: 95, Frequency: Quarterly},
	{Lower: 95, Upper: 185, Frequency: SemiAnnual},
	{Lower: 185, Upper: math.Inf(1), Frequency: Annual},
}

// IsValid reports whether f is one of the four payment cadences.
func (f Frequency) IsValid() bool {
	_, ok := PaymentsPerYear[f]
	return ok
}

// PaymentsNeeded returns the number of payments that make up one year, or 0.
func (f Frequency) PaymentsNeeded() int {
	return PaymentsPerYear[f]
}

// ClassifyInterval maps an average interval in days to a cadence.
func ClassifyInterval(avgInterval float64) Frequency {
	for _, r := range IntervalRanges {
		if r.Lower <= avgInterval && avgInterval < r.Upper {
			return r.Frequency
		}
	}
	return FrequencyUnknown
}

// ExDividendEvent is one historical ex-dividend date and the amount declared for it.
type ExDividendEvent struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// Series is a chronologically ordered ex-dividend history with unique dates.
type Series []ExDividendEvent

// NewSeries normalises events into a Series: dates are truncated to UTC days,
// sorted ascending and de-duplicated (the later entry wins). Negative amounts
// are dropped.
func NewSeries(events []ExDividendEvent) Series {
	byDay := make(map[time.Time]float64, len(events))
	for _, e := range events {
		if e.Amount < 0 || math.IsNaN(e.Amount) || e.Date.IsZero() {
			continue
		}
		byDay[DateOnly(e.Date)] = e.Amount
	}

	out := make(Series, 0, len(byDay))
	for d, amt := range byDay {
		out = append(out, ExDividendEvent{Date: d, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Last returns the most recent event.
func (s Series) Last() (ExDividendEvent, bool) {
	if len(s) == 0 {
		return ExDividendEvent{}, false
	}
	return s[len(s)-1], true
}

// Tail returns at most the last n events.
func (s Series) Tail(n int) Series {
	if n <= 0 {
		return Series{}
	}
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// Since returns the events on or after cutoff.
func (s Series) Since(cutoff time.Time) Series {
	idx := sort.Search(len(s), func(i int) bool { return !s[i].Date.Before(cutoff) })
	return s[idx:]
}

// Sum totals the amounts.
func (s Series) Sum() float64 {
	total := 0.0
	for _, e := range s {
		total += e.Amount
	}
	return total
}

// Calendar is the provider's forward-looking guess at the next dividend cycle.
// Either date may be absent and the two are not guaranteed to be consistent.
type Calendar struct {
	ExDividendDate *time.Time `json:"ex_dividend_date,omitempty"`
	DividendDate   *time.Time `json:"dividend_date,omitempty"`
}

// HasBoth reports whether both the ex-date and the payment date are known.
func (c *Calendar) HasBoth() bool {
	return c != nil && c.ExDividendDate != nil && c.DividendDate != nil
}

// IsEmpty reports whether neither date is known.
func (c *Calendar) IsEmpty() bool {
	return c == nil || (c.ExDividendDate == nil && c.DividendDate == nil)
}

// Confidence grades how much direct evidence backs a gap estimate.
type Confidence string

const (
	ConfidenceHigh     Confidence = "high"
	ConfidenceModerate Confidence = "moderate"
	ConfidenceLow      Confidence = "low"
)

// GapResult is the estimated number of days between ex-date and payment date.
type GapResult struct {
	GapDays    int        `json:"gap_days"`
	Confidence Confidence `json:"confidence"`
	Method     string     `json:"estimation_method"`
}

// ExDividendPattern holds day-of-month statistics for recent ex-dividend dates.
type ExDividendPattern struct {
	MeanDayOfMonth float64 `json:"mean_day_of_month"`
	StdDevDays     float64 `json:"std_dev_days"`
	MinDay         int     `json:"min_day"`
	MaxDay         int     `json:"max_day"`
}

// LastDividend is the best estimate of the most recent real payment.
type LastDividend struct {
	Date   *time.Time
	Amount *float64
	Method string
}

// DateString returns the ISO date or "" when the date is unknown.
func (l LastDividend) DateString() string {
	if l.Date == nil {
		return ""
	}
	return l.Date.Format(isoDate)
}

// MarshalJSON renders the date as YYYY-MM-DD (or null).
func (l LastDividend) MarshalJSON() ([]byte, error) {
	var date *string
	if l.Date != nil {
		s := l.Date.Format(isoDate)
		date = &s
	}
	return json.Marshal(struct {
		Date   *string  `json:"date"`
		Amount *float64 `json:"amount"`
		Method string   `json:"estimation_method"`
	}{date, l.Amount, l.Method})
}

// UnmarshalJSON accepts the form written by MarshalJSON.
func (l *LastDividend) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date   *string  `json:"date"`
		Amount *float64 `json:"amount"`
		Method string   `json:"estimation_method"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Amount = raw.Amount
	l.Method = raw.Method
	l.Date = nil
	if raw.Date != nil && *raw.Date != "" {
		d, err := time.Parse(isoDate, *raw.Date)
		if err != nil {
			return err
		}
		l.Date = &d
	}
	return nil
}

// StockInfo is the provider's untyped key/value snapshot for a security.
type StockInfo map[string]any

// Float returns the numeric value stored under key. Missing, zero, empty or
// non-numeric values are reported as absent.
func (i StockInfo) Float(key string) (float64, bool) {
	if i == nil {
		return 0, false
	}
	v, ok := i[key]
	if !ok || v == nil {
		return 0, false
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FirstFloat tries primary first, then each alias in order.
func (i StockInfo) FirstFloat(primary string, aliases ...string) (float64, bool) {
	if v, ok := i.Float(primary); ok {
		return v, true
	}
	for _, key := range aliases {
		if v, ok := i.Float(key); ok {
			return v, true
		}
	}
	return 0, false
}

// String returns the string stored under key, or fallback.
func (i StockInfo) String(key, fallback string) string {
	if i == nil {
		return fallback
	}
	if s, ok := i[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// Price returns the current price, falling back to the market and previous close.
func (i StockInfo) Price() (float64, bool) {
	return i.FirstFloat("currentPrice", "regularMarketPrice", "previousClose")
}

// Inputs bundles everything the engine needs for one security.
type Inputs struct {
	Info     StockInfo `json:"info"`
	Calendar Calendar  `json:"calendar"`
	Series   Series    `json:"series"`
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole days from a to b (negative when b is earlier).
func daysBetween(a, b time.Time) int {
	return int(math.Round(DateOnly(b).Sub(DateOnly(a)).Hours() / 24))
}

// addDays shifts a date by n calendar days.
func addDays(t time.Time, n int) time.Time {
	return DateOnly(t).AddDate(0, 0, n)
}
