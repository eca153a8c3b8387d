package dividend

import (
	"fmt"
	"math"
	"time"
)

// Last dividend estimation methods.
const (
	MethodNoDividendHistory        = "no_dividend_history"
	MethodCalendarPlusInterval     = "calendar_date_plus_one_interval"
	MethodDirectFromCalendar       = "direct_from_calendar"
	MethodExDividendPlusProjection = "ex_dividend_plus_interval_projection"
	MethodPreviousExDividendPlus   = "previous_ex_dividend_plus_gap"
	MethodExDividendPlusGapBasic   = "ex_dividend_plus_gap_basic"
	MethodEstimationFailed         = "estimation_failed"
	MethodErrorDuringProcessing    = "error_during_processing"
	MethodInsufficientIntervalData = "insufficient_interval_data"
)

// ResolveContext carries the inputs shared by every last-dividend rule.
type ResolveContext struct {
	Today       time.Time
	Series      Series
	Calendar    *Calendar
	GapDays     int
	AvgInterval float64
	Threshold   float64
}

// staleAfter is the number of days after which a date is one cycle too old.
func (c *ResolveContext) staleAfter() float64 {
	return c.AvgInterval * c.Threshold
}

func (c *ResolveContext) last() ExDividendEvent {
	return c.Series[len(c.Series)-1]
}

// EstimatedPayout is the last ex-dividend date plus the typical gap.
func (c *ResolveContext) EstimatedPayout() time.Time {
	return addDays(c.last().Date, c.GapDays)
}

func (c *ResolveContext) estimateTooOld() bool {
	return float64(daysBetween(c.EstimatedPayout(), c.Today)) > c.staleAfter()
}

func (c *ResolveContext) calendarTooOld() bool {
	return float64(daysBetween(*c.Calendar.DividendDate, c.Today)) > c.staleAfter()
}

// Rule proposes a candidate last-payment date. ok is false when the rule does
// not apply to the context.
type Rule struct {
	Method    string
	Candidate func(c *ResolveContext) (date time.Time, amount float64, ok bool)
}

// DefaultLastDividendRules returns the resolver rules in priority order; the
// first rule producing a date on or before today wins. Each call returns a
// fresh slice.
func DefaultLastDividendRules() []Rule {
	return []Rule{
		{Method: MethodCalendarPlusInterval, Candidate: calendarPlusInterval},
		{Method: MethodDirectFromCalendar, Candidate: directFromCalendar},
		{Method: MethodExDividendPlusProjection, Candidate: exDividendPlusProjection},
		{Method: MethodPreviousExDividendPlus, Candidate: previousExDividendPlusGap},
		{Method: MethodExDividendPlusGapBasic, Candidate: exDividendPlusGapBasic},
	}
}

// calendarPlusInterval handles a calendar payment date that is too old to be
// current: the provider has not rolled the calendar, so the real last payment
// is one interval later.
func calendarPlusInterval(c *ResolveContext) (time.Time, float64, bool) {
	if !c.Calendar.HasBoth() || !c.calendarTooOld() {
		return time.Time{}, 0, false
	}
	projected := addDays(*c.Calendar.DividendDate, int(c.AvgInterval))
	if projected.After(c.Today) {
		return time.Time{}, 0, false
	}
	return projected, c.last().Amount, true
}

// directFromCalendar trusts a recent calendar payment date that has passed.
func directFromCalendar(c *ResolveContext) (time.Time, float64, bool) {
	if !c.Calendar.HasBoth() || c.calendarTooOld() {
		return time.Time{}, 0, false
	}
	payDate := DateOnly(*c.Calendar.DividendDate)
	if !payDate.Before(c.Today) {
		return time.Time{}, 0, false
	}
	return payDate, c.last().Amount, true
}

// exDividendPlusProjection moves an estimate that is a cycle too old forward
// by one interval.
func exDividendPlusProjection(c *ResolveContext) (time.Time, float64, bool) {
	if !c.estimateTooOld() {
		return time.Time{}, 0, false
	}
	projected := addDays(c.EstimatedPayout(), int(c.AvgInterval))
	if projected.After(c.Today) {
		return time.Time{}, 0, false
	}
	return projected, c.last().Amount, true
}

// previousExDividendPlusGap retries from the second-to-last ex-date when the
// latest one has not been paid yet (or the estimate is stale).
func previousExDividendPlusGap(c *ResolveContext) (time.Time, float64, bool) {
	if len(c.Series) < 2 {
		return time.Time{}, 0, false
	}
	if !c.EstimatedPayout().After(c.Today) && !c.estimateTooOld() {
		return time.Time{}, 0, false
	}
	prev := c.Series[len(c.Series)-2]
	estimate := addDays(prev.Date, c.GapDays)
	if estimate.After(c.Today) {
		return time.Time{}, 0, false
	}
	return estimate, prev.Amount, true
}

// exDividendPlusGapBasic accepts the plain estimate when it is not in the future.
func exDividendPlusGapBasic(c *ResolveContext) (time.Time, float64, bool) {
	estimate := c.EstimatedPayout()
	if estimate.After(c.Today) {
		return time.Time{}, 0, false
	}
	return estimate, c.last().Amount, true
}

// ResolveLastDividend estimates the date and amount of the most recent real
// payment. The provider exposes no payment history, so the date is inferred
// from the calendar and the last ex-dividend dates plus the typical gap. The
// returned date is never after today. Without a positive average interval
// no rule can measure staleness, so the result carries no date.
func (a *Analyzer) ResolveLastDividend(series Series, calendar *Calendar, gapDays int,
	avgInterval float64, pattern ExDividendPattern, threshold float64) (result LastDividend) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn().Str("panic", fmt.Sprint(r)).Msg("Dividend info calculation failed")
			result = LastDividend{Method: fmt.Sprintf("%s: %v", MethodErrorDuringProcessing, r)}
		}
	}()

	if len(series) == 0 {
		return LastDividend{Method: MethodNoDividendHistory}
	}
	if !(avgInterval > 0) || math.IsInf(avgInterval, 0) {
		return LastDividend{Method: MethodInsufficientIntervalData}
	}

	ctx := &ResolveContext{
		Today:       a.Today(),
		Series:      series,
		Calendar:    calendar,
		GapDays:     gapDays,
		AvgInterval: avgInterval,
		Threshold:   threshold,
	}

	for _, rule := range a.rules {
		date, amount, ok := rule.Candidate(ctx)
		if !ok || date.After(ctx.Today) {
			continue
		}
		return LastDividend{Date: &date, Amount: &amount, Method: rule.Method}
	}

	return LastDividend{
		Method: fmt.Sprintf("%s [pattern: mean_day=%.1f, std=%.1f, threshold=%.2f]",
			MethodEstimationFailed, pattern.MeanDayOfMonth, pattern.StdDevDays, threshold),
	}
}
