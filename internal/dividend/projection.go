package dividend

import (
	"math"
	"time"
)

// horizon returns how many cycles to project so the list covers at least a year.
func horizon(cadence Frequency) int {
	if cadence == Monthly {
		return 14
	}
	return 6
}

// PredictFutureDates projects upcoming payment dates as ISO strings.
//
// A calendar payment date on or after today anchors the projection and the
// remaining cycles step forward by the rounded interval. Otherwise each cycle's
// ex-date is projected from lastExDate and the gap added, keeping only dates
// on or after today. Returns nil when nothing can be projected.
func (a *Analyzer) PredictFutureDates(gapDays int, avgInterval float64, lastExDate *time.Time,
	calendar *Calendar, pattern *ExDividendPattern, cadence Frequency) []string {
	if lastExDate == nil || lastExDate.IsZero() || !(avgInterval > 0) || math.IsInf(avgInterval, 0) {
		return nil
	}

	today := a.Today()
	cycles := horizon(cadence)
	step := int(math.RoundToEven(avgInterval))

	if calendar.HasBoth() {
		next := DateOnly(*calendar.DividendDate)
		if !next.Before(today) {
			dates := make([]string, 0, cycles)
			dates = append(dates, next.Format(isoDate))
			for i := 1; i < cycles; i++ {
				next = addDays(next, step)
				dates = append(dates, next.Format(isoDate))
			}
			return dates
		}
	}

	var dates []string
	for i := 1; i <= cycles; i++ {
		nextEx := addDays(*lastExDate, int(math.RoundToEven(avgInterval*float64(i))))
		payout := addDays(nextEx, gapDays)
		if !payout.Before(today) {
			dates = append(dates, payout.Format(isoDate))
		}
	}

	if len(dates) == 0 {
		a.logger.Debug().Int("cycles", cycles).Msg("No projected dividend dates fall on or after today")
		return nil
	}
	return dates
}
