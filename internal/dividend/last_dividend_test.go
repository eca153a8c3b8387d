package dividend

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestResolveLastDividend(t *testing.T) {
	a := newTestAnalyzer(t)
	quarterly := seriesOf("2023-08-01", "2023-11-01", "2024-02-01", "2024-05-01")

	tests := []struct {
		name       string
		series     Series
		calendar   *Calendar
		gap        int
		wantDate   string
		wantAmount float64
		wantMethod string
	}{
		{
			name:       "basic estimate",
			series:     quarterly,
			gap:        30,
			wantDate:   "2024-05-31",
			wantAmount: 0.5,
			wantMethod: MethodExDividendPlusGapBasic,
		},
		{
			name: "latest ex-date not yet paid",
			series: NewSeries([]ExDividendEvent{
				{Date: mustDate("2023-12-01"), Amount: 0.40},
				{Date: mustDate("2024-03-01"), Amount: 0.45},
				{Date: mustDate("2024-06-01"), Amount: 0.50},
			}),
			gap:        30,
			wantDate:   "2024-03-31",
			wantAmount: 0.45,
			wantMethod: MethodPreviousExDividendPlus,
		},
		{
			name:       "stale estimate projected one interval",
			series:     seriesOf("2023-06-01", "2023-09-01", "2023-12-01"),
			gap:        30,
			wantDate:   "2024-03-30",
			wantAmount: 0.5,
			wantMethod: MethodExDividendPlusProjection,
		},
		{
			name:       "recent calendar payment",
			series:     quarterly,
			calendar:   &Calendar{ExDividendDate: datePtr("2024-05-10"), DividendDate: datePtr("2024-06-01")},
			gap:        22,
			wantDate:   "2024-06-01",
			wantAmount: 0.5,
			wantMethod: MethodDirectFromCalendar,
		},
		{
			name:       "stale calendar rolled forward",
			series:     quarterly,
			calendar:   &Calendar{ExDividendDate: datePtr("2024-01-01"), DividendDate: datePtr("2024-01-15")},
			gap:        14,
			wantDate:   "2024-04-14",
			wantAmount: 0.5,
			wantMethod: MethodCalendarPlusInterval,
		},
		{
			name:       "future calendar payment falls through to history",
			series:     quarterly,
			calendar:   &Calendar{ExDividendDate: datePtr("2024-06-10"), DividendDate: datePtr("2024-07-01")},
			gap:        30,
			wantDate:   "2024-05-31",
			wantAmount: 0.5,
			wantMethod: MethodExDividendPlusGapBasic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.ResolveLastDividend(tt.series, tt.calendar, tt.gap, 90, ExDividendPattern{}, 1.2)
			require.NotNil(t, got.Date)
			require.NotNil(t, got.Amount)
			assert.Equal(t, tt.wantDate, got.DateString())
			assert.Equal(t, tt.wantAmount, *got.Amount)
			assert.Equal(t, tt.wantMethod, got.Method)
		})
	}
}

func TestResolveLastDividend_NoHistory(t *testing.T) {
	a := newTestAnalyzer(t)

	got := a.ResolveLastDividend(nil, &Calendar{}, 0, 0, ExDividendPattern{}, DefaultStaleness)
	assert.Nil(t, got.Date)
	assert.Nil(t, got.Amount)
	assert.Equal(t, MethodNoDividendHistory, got.Method)
}

func TestResolveLastDividend_EstimationFailed(t *testing.T) {
	a := newTestAnalyzer(t)

	got := a.ResolveLastDividend(seriesOf("2024-06-10"), nil, 30, 90, ExDividendPattern{MeanDayOfMonth: 10}, 1.1)
	assert.Nil(t, got.Date)
	assert.True(t, strings.HasPrefix(got.Method, MethodEstimationFailed), got.Method)
	assert.Contains(t, got.Method, "mean_day=10.0")
	assert.Contains(t, got.Method, "threshold=1.10")
}

func TestResolveLastDividend_NeverInFuture(t *testing.T) {
	a := newTestAnalyzer(t)

	for _, avg := range []float64{30, 91, 182, 365} {
		for gap := 0; gap <= MaxGapDays; gap += 5 {
			for offset := -400; offset <= 30; offset += 7 {
				last := testToday.AddDate(0, 0, offset)
				prev := last.AddDate(0, 0, -int(avg))
				series := NewSeries([]ExDividendEvent{{Date: prev, Amount: 1}, {Date: last, Amount: 1}})

				calendars := []*Calendar{
					nil,
					{ExDividendDate: &last, DividendDate: ptrTime(last.AddDate(0, 0, gap))},
				}
				for _, cal := range calendars {
					got := a.ResolveLastDividend(series, cal, gap, avg, ExDividendPattern{}, 1.2)
					if got.Date != nil {
						assert.False(t, got.Date.After(testToday), "avg=%v gap=%d offset=%d method=%s", avg, gap, offset, got.Method)
					}
				}
			}
		}
	}
}

func TestResolveLastDividend_InsufficientInterval(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name string
		avg  float64
	}{
		{"zero interval", 0},
		{"negative interval", -5},
		{"infinite interval", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.ResolveLastDividend(seriesOf("2024-03-07"), &Calendar{}, 0, tt.avg, ExDividendPattern{}, DefaultStaleness)
			assert.Nil(t, got.Date)
			assert.Nil(t, got.Amount)
			assert.Equal(t, MethodInsufficientIntervalData, got.Method)
		})
	}
}

func TestAnalyze_SingleEventHasNoLastDividendDate(t *testing.T) {
	a := newTestAnalyzer(t)

	result := a.Analyze(Inputs{Series: seriesOf("2024-03-07")})

	last := result.LastDividend()
	assert.Nil(t, last.Date)
	assert.Equal(t, MethodInsufficientIntervalData, last.Method)
}

func TestResolveLastDividend_RecoversFromPanickingRule(t *testing.T) {
	boom := Rule{
		Method: "boom",
		Candidate: func(*ResolveContext) (time.Time, float64, bool) {
			panic("rule exploded")
		},
	}
	a := NewAnalyzer(arbor.NewLogger(),
		WithClock(func() time.Time { return testToday }),
		WithRules(boom))

	got := a.ResolveLastDividend(seriesOf("2024-03-01", "2024-06-01"), nil, 30, 91, ExDividendPattern{}, 1.2)

	assert.Nil(t, got.Date)
	assert.Nil(t, got.Amount)
	assert.Equal(t, MethodErrorDuringProcessing+": rule exploded", got.Method)
}

func TestWithRules_DoesNotAffectOtherAnalyzers(t *testing.T) {
	never := Rule{Method: "never", Candidate: func(*ResolveContext) (time.Time, float64, bool) {
		return time.Time{}, 0, false
	}}
	custom := NewAnalyzer(arbor.NewLogger(), WithClock(func() time.Time { return testToday }), WithRules(never))
	standard := newTestAnalyzer(t)
	series := seriesOf("2023-08-01", "2023-11-01", "2024-02-01", "2024-05-01")

	got := custom.ResolveLastDividend(series, nil, 30, 90, ExDividendPattern{}, 1.2)
	assert.True(t, strings.HasPrefix(got.Method, MethodEstimationFailed), got.Method)

	got = standard.ResolveLastDividend(series, nil, 30, 90, ExDividendPattern{}, 1.2)
	assert.Equal(t, MethodExDividendPlusGapBasic, got.Method)
}

func TestDefaultLastDividendRules_Order(t *testing.T) {
	rules := DefaultLastDividendRules()
	methods := make([]string, len(rules))
	for i, r := range rules {
		methods[i] = r.Method
	}

	assert.Equal(t, []string{
		MethodCalendarPlusInterval,
		MethodDirectFromCalendar,
		MethodExDividendPlusProjection,
		MethodPreviousExDividendPlus,
		MethodExDividendPlusGapBasic,
	}, methods)

	rules[0].Method = "changed"
	assert.Equal(t, MethodCalendarPlusInterval, DefaultLastDividendRules()[0].Method)
}
