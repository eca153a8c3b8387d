package dividend

import (
	"math"
)

// Gap estimation methods.
const (
	GapMethodExDivPredicted  = "exdiv_predicted_direct_calendar"
	GapMethodDirectCalendar  = "direct_calendar"
	GapMethodDivPredicted    = "div_predicted_direct_calendar"
	GapMethodDefaultFallback = "default_fallback_guess"
)

// AnalyzeGap estimates the typical days between an ex-dividend date and its
// payment date. Only the calendar carries payment dates, so without one the
// result is a structural guess of one third of the cycle, capped at
// FallbackGapDays.
//
// A calendar payment date that sits more than one interval after its ex-date
// is treated as the next cycle's payment shown against an older ex-date.
func (a *Analyzer) AnalyzeGap(calendar *Calendar, avgInterval float64) GapResult {
	if calendar.HasBoth() {
		payDate := *calendar.DividendDate
		exDate := *calendar.ExDividendDate
		gap := daysBetween(exDate, payDate)

		if avgInterval > 0 && float64(gap) > avgInterval {
			adjusted := gap - int(avgInterval)
			if inGapRange(adjusted) {
				return GapResult{GapDays: adjusted, Confidence: ConfidenceModerate, Method: GapMethodExDivPredicted}
			}
		} else if inGapRange(gap) {
			return GapResult{GapDays: gap, Confidence: ConfidenceHigh, Method: GapMethodDirectCalendar}
		}

		if avgInterval > 0 {
			// Payment date may belong to the cycle before the calendar's ex-date.
			priorEx := addDays(exDate, -int(avgInterval))
			calculated := daysBetween(priorEx, payDate)
			if inGapRange(calculated) {
				return GapResult{GapDays: calculated, Confidence: ConfidenceModerate, Method: GapMethodDivPredicted}
			}
		}

		a.logger.Debug().Int("raw_gap", gap).Msg("Calendar gap out of range, using fallback")
	}

	return GapResult{
		GapDays:    FallbackGap(avgInterval),
		Confidence: ConfidenceLow,
		Method:     GapMethodDefaultFallback,
	}
}

// FallbackGap returns min(FallbackGapDays, floor(avgInterval/3)), or
// FallbackGapDays when no interval is known.
func FallbackGap(avgInterval float64) int {
	if avgInterval <= 0 || !isFinite(avgInterval) {
		return FallbackGapDays
	}
	third := int(math.Floor(avgInterval / 3))
	if third < FallbackGapDays {
		return third
	}
	return FallbackGapDays
}

func inGapRange(days int) bool {
	return days >= 0 && days <= MaxGapDays
}
