package dividend

import (
	"testing"
	"time"

	"github.com/ternarybob/arbor"
)

// testToday is the fixed "today" used across the package tests.
var testToday = mustDate("2024-06-15")

func mustDate(s string) time.Time {
	t, err := time.Parse(isoDate, s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := mustDate(s)
	return &t
}

// newTestAnalyzer returns an analyzer pinned to testToday.
func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return NewAnalyzer(arbor.NewLogger(), WithClock(func() time.Time { return testToday }))
}

// seriesEvery builds n events starting at start, spaced every days apart.
func seriesEvery(start string, n, days int, amount float64) Series {
	first := mustDate(start)
	events := make([]ExDividendEvent, n)
	for i := range events {
		events[i] = ExDividendEvent{Date: first.AddDate(0, 0, i*days), Amount: amount}
	}
	return NewSeries(events)
}

func seriesOf(dates ...string) Series {
	events := make([]ExDividendEvent, len(dates))
	for i, d := range dates {
		events[i] = ExDividendEvent{Date: mustDate(d), Amount: 0.5}
	}
	return NewSeries(events)
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

// newPanickingAnalyzer returns an analyzer whose clock panics, forcing a fault
// inside whichever step first asks for today.
func newPanickingAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return NewAnalyzer(arbor.NewLogger(), WithClock(func() time.Time { panic("clock unavailable") }))
}
