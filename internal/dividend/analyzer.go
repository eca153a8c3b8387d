package dividend

import (
	"math"
	"time"

	"github.com/ternarybob/arbor"
)

// Analyzer runs the estimation steps against a fixed clock. It holds no
// per-security state and is safe for concurrent use.
type Analyzer struct {
	logger arbor.ILogger
	now    func() time.Time
	rules  []Rule
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// WithRules replaces the last-dividend resolver rules.
func WithRules(rules ...Rule) Option {
	return func(a *Analyzer) {
		a.rules = rules
	}
}

// NewAnalyzer creates an Analyzer. A nil logger is replaced with a default one.
func NewAnalyzer(logger arbor.ILogger, opts ...Option) *Analyzer {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	a := &Analyzer{
		logger: logger,
		now:    time.Now,
		rules:  DefaultLastDividendRules(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Today returns the analyzer's current date (UTC, midnight).
func (a *Analyzer) Today() time.Time {
	return DateOnly(a.now())
}

// Analysis is the shared context produced from one security's inputs.
type Analysis struct {
	Inputs      Inputs            `json:"-"`
	Frequency   Frequency         `json:"frequency"`
	AvgInterval float64           `json:"average_interval_days"`
	HasHistory  bool              `json:"has_history"`
	Gap         GapResult         `json:"gap"`
	Pattern     ExDividendPattern `json:"pattern"`
	Staleness   float64           `json:"staleness_threshold"`

	analyzer *Analyzer
}

// Analyze derives frequency, gap, pattern and staleness for inputs.
func (a *Analyzer) Analyze(inputs Inputs) *Analysis {
	result := &Analysis{
		Inputs:   inputs,
		analyzer: a,
	}

	result.Frequency, result.AvgInterval = a.AnalyzeFrequency(inputs.Series)
	if result.Frequency == FrequencyNone {
		result.Gap = GapResult{GapDays: 0, Confidence: ConfidenceLow, Method: MethodNoDividendHistory}
		result.Staleness = DefaultStaleness
		return result
	}

	result.HasHistory = true
	result.Gap = a.AnalyzeGap(&inputs.Calendar, result.AvgInterval)
	result.Pattern = a.AnalyzeExDividendPattern(inputs.Series)
	if result.AvgInterval > 0 {
		result.Staleness = StalenessThreshold(result.AvgInterval, result.Pattern)
	} else {
		result.Staleness = DefaultStaleness
	}

	a.logger.Debug().
		Str("frequency", string(result.Frequency)).
		Int("gap_days", result.Gap.GapDays).
		Str("gap_method", result.Gap.Method).
		Msgf("Analysed dividend history (interval=%.1f, staleness=%.2f)", result.AvgInterval, result.Staleness)

	return result
}

// LastDividend resolves the most recent payment from the analysis context.
func (r *Analysis) LastDividend() LastDividend {
	return r.analyzer.ResolveLastDividend(
		r.Inputs.Series,
		&r.Inputs.Calendar,
		r.Gap.GapDays,
		r.AvgInterval,
		r.Pattern,
		r.Staleness,
	)
}

// FutureDates projects upcoming payment dates, or nil without history.
func (r *Analysis) FutureDates() []string {
	last, ok := r.Inputs.Series.Last()
	if !ok {
		return nil
	}
	cadence := r.Frequency
	if cadence == FrequencyNone {
		cadence = Quarterly
	}
	return r.analyzer.PredictFutureDates(
		r.Gap.GapDays,
		r.AvgInterval,
		&last.Date,
		&r.Inputs.Calendar,
		&r.Pattern,
		cadence,
	)
}

// DividendInfo is the rate/payout summary for a security.
type DividendInfo struct {
	DividendRate    *float64  `json:"dividend_rate"`
	DividendYield   *float64  `json:"dividend_yield"`
	PayoutRatio     *float64  `json:"payout_ratio"`
	Frequency       Frequency `json:"frequency"`
	AvgIntervalDays *int      `json:"average_interval_days"`
	ExDividendDate  string    `json:"ex_dividend_date,omitempty"`
	RateMethod      string    `json:"dividend_rate_method"`
	RatioMethod     string    `json:"payout_ratio_method"`
}

// DividendInfo computes the dividend rate and payout ratio with their methods.
func (r *Analysis) DividendInfo() DividendInfo {
	info := r.Inputs.Info
	price, hasPrice := info.Price()
	var pricePtr *float64
	if hasPrice {
		pricePtr = &price
	}

	rate, rateMethod := DividendRate(pricePtr, info, r.Inputs.Series, r.Frequency)
	ratio, ratioMethod := PayoutRatio(info, rate)

	out := DividendInfo{
		DividendRate:   rate,
		PayoutRatio:    ratio,
		Frequency:      r.Frequency,
		ExDividendDate: LatestExDate(info, &r.Inputs.Calendar, r.Inputs.Series),
		RateMethod:     rateMethod,
		RatioMethod:    ratioMethod,
	}
	if y, ok := info.FirstFloat("dividendYield", "yield"); ok {
		out.DividendYield = &y
	}
	if r.AvgInterval > 0 {
		days := int(math.RoundToEven(r.AvgInterval))
		out.AvgIntervalDays = &days
	}
	return out
}
