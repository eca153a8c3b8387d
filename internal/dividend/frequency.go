package dividend

import (
	"fmt"
)

// AnalyzeFrequency classifies the payment cadence of series and returns the
// typical interval in days between ex-dividend dates.
//
// Recent history (the last RecentHistoryDays) dominates so a company that has
// changed cadence is classified by its current behaviour; the full history is
// used when the recent window is too sparse. Results:
//   - fewer than two events: (FrequencyNone, 0)
//   - fewer than two valid intervals: (FrequencyInsufficientData, 0)
//   - non-finite or non-positive interval, or any fault: (FrequencyUnknown, 0)
func (a *Analyzer) AnalyzeFrequency(series Series) (freq Frequency, avgInterval float64) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn().Str("panic", fmt.Sprint(r)).Msg("Error in frequency calculation")
			freq, avgInterval = FrequencyUnknown, 0
		}
	}()

	if len(series) < 2 {
		return FrequencyNone, 0
	}

	valid := positiveIntervals(series)
	if len(valid) < MinIntervalsRequired {
		a.logger.Debug().Int("valid_intervals", len(valid)).Msg("Not enough dividend intervals to classify frequency")
		return FrequencyInsufficientData, 0
	}

	cutoff := a.Today().AddDate(0, 0, -RecentHistoryDays)
	recent := series.Since(cutoff)
	if len(recent)-1 >= MinIntervalsRequired {
		avgInterval = median(positiveIntervals(recent))
	} else {
		avgInterval = median(valid)
	}

	if !isFinite(avgInterval) || avgInterval <= 0 {
		return FrequencyUnknown, 0
	}

	cv := stddev(valid) / avgInterval
	a.logger.Debug().
		Int("intervals", len(valid)).
		Int("recent_events", len(recent)).
		Msgf("Dividend interval %.1f days (cv=%.3f)", avgInterval, cv)

	return ClassifyInterval(avgInterval), avgInterval
}

// positiveIntervals returns the strictly positive day gaps between consecutive events.
func positiveIntervals(series Series) []float64 {
	intervals := make([]float64, 0, len(series))
	for i := 1; i < len(series); i++ {
		d := float64(daysBetween(series[i-1].Date, series[i].Date))
		if d > 0 && isFinite(d) {
			intervals = append(intervals, d)
		}
	}
	return intervals
}
