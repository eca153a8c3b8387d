package dividend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeGap(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name     string
		calendar *Calendar
		avg      float64
		want     GapResult
	}{
		{
			name: "no calendar",
			avg:  90,
			want: GapResult{GapDays: 30, Confidence: ConfidenceLow, Method: GapMethodDefaultFallback},
		},
		{
			name:     "payment date only",
			calendar: &Calendar{DividendDate: datePtr("2024-06-01")},
			avg:      90,
			want:     GapResult{GapDays: 30, Confidence: ConfidenceLow, Method: GapMethodDefaultFallback},
		},
		{
			name:     "direct calendar gap",
			calendar: &Calendar{ExDividendDate: datePtr("2024-05-10"), DividendDate: datePtr("2024-06-01")},
			avg:      90,
			want:     GapResult{GapDays: 22, Confidence: ConfidenceHigh, Method: GapMethodDirectCalendar},
		},
		{
			name:     "payment date from the next cycle",
			calendar: &Calendar{ExDividendDate: datePtr("2024-01-10"), DividendDate: datePtr("2024-05-01")},
			avg:      90,
			want:     GapResult{GapDays: 22, Confidence: ConfidenceModerate, Method: GapMethodExDivPredicted},
		},
		{
			name:     "adjusted gap at upper bound region",
			calendar: &Calendar{ExDividendDate: datePtr("2024-01-10"), DividendDate: datePtr("2024-06-01")},
			avg:      90,
			want:     GapResult{GapDays: 53, Confidence: ConfidenceModerate, Method: GapMethodExDivPredicted},
		},
		{
			name:     "payment date before calendar ex-date",
			calendar: &Calendar{ExDividendDate: datePtr("2024-03-01"), DividendDate: datePtr("2024-02-15")},
			avg:      30,
			want:     GapResult{GapDays: 15, Confidence: ConfidenceModerate, Method: GapMethodDivPredicted},
		},
		{
			name:     "inconsistent calendar falls back",
			calendar: &Calendar{ExDividendDate: datePtr("2024-01-10"), DividendDate: datePtr("2024-09-01")},
			avg:      90,
			want:     GapResult{GapDays: 30, Confidence: ConfidenceLow, Method: GapMethodDefaultFallback},
		},
		{
			name:     "gap over max without interval",
			calendar: &Calendar{ExDividendDate: datePtr("2024-01-01"), DividendDate: datePtr("2024-03-02")},
			avg:      0,
			want:     GapResult{GapDays: 34, Confidence: ConfidenceLow, Method: GapMethodDefaultFallback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.AnalyzeGap(tt.calendar, tt.avg))
		})
	}
}

func TestFallbackGap(t *testing.T) {
	tests := []struct {
		avg  float64
		want int
	}{
		{0, 34},
		{-5, 34},
		{30, 10},
		{90, 30},
		{100, 33},
		{150, 34},
		{365, 34},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FallbackGap(tt.avg), "avg %v", tt.avg)
	}
}

func TestAnalyzeGap_AlwaysInRange(t *testing.T) {
	a := newTestAnalyzer(t)
	base := mustDate("2024-01-01")

	for _, avg := range []float64{0, 30, 91, 182, 365} {
		for offset := -120; offset <= 400; offset += 13 {
			pay := base.AddDate(0, 0, offset)
			got := a.AnalyzeGap(&Calendar{ExDividendDate: &base, DividendDate: &pay}, avg)
			assert.GreaterOrEqual(t, got.GapDays, 0)
			assert.LessOrEqual(t, got.GapDays, MaxGapDays)
		}
	}
}
