package dividend

import (
	"fmt"
)

// AnalyzeExDividendPattern computes day-of-month statistics for ex-dividend
// dates in the recent window, falling back to the full series when the window
// holds fewer than MinSamplesRequired events. A zero pattern means not enough
// data.
func (a *Analyzer) AnalyzeExDividendPattern(series Series) (pattern ExDividendPattern) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn().Str("panic", fmt.Sprint(r)).Msg("Pattern analysis failed")
			pattern = ExDividendPattern{}
		}
	}()

	if len(series) == 0 {
		return ExDividendPattern{}
	}

	samples := series.Since(a.Today().AddDate(0, 0, -RecentHistoryDays))
	if len(samples) < MinSamplesRequired {
		if len(series) < MinSamplesRequired {
			return ExDividendPattern{}
		}
		samples = series
	}

	days := make([]float64, len(samples))
	minDay, maxDay := 31, 1
	for i, e := range samples {
		day := e.Date.Day()
		days[i] = float64(day)
		if day < minDay {
			minDay = day
		}
		if day > maxDay {
			maxDay = day
		}
	}

	return ExDividendPattern{
		MeanDayOfMonth: mean(days),
		StdDevDays:     stddev(days),
		MinDay:         minDay,
		MaxDay:         maxDay,
	}
}
