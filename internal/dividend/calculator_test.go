package dividend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestDividendRate(t *testing.T) {
	tests := []struct {
		name       string
		price      *float64
		info       StockInfo
		series     Series
		freq       Frequency
		want       *float64
		wantMethod string
	}{
		{
			name:       "reported rate",
			info:       StockInfo{"dividendRate": 1.75, "dividendYield": 0.04},
			price:      floatPtr(50),
			want:       floatPtr(1.75),
			wantMethod: MethodDirectFromInfo,
		},
		{
			name:       "price times yield",
			info:       StockInfo{"dividendYield": 0.04},
			price:      floatPtr(50),
			want:       floatPtr(2),
			wantMethod: MethodPriceAndYieldProduct,
		},
		{
			name:       "yield alias",
			info:       StockInfo{"yield": 0.05},
			price:      floatPtr(20),
			want:       floatPtr(1),
			wantMethod: MethodPriceAndYieldProduct,
		},
		{
			name:       "quarterly history",
			series:     seriesEvery("2023-06-01", 4, 90, 0.5),
			freq:       Quarterly,
			want:       floatPtr(2),
			wantMethod: "historical_quarterly_calculation",
		},
		{
			name:       "partial history scaled up",
			series:     seriesEvery("2024-01-01", 2, 90, 0.5),
			freq:       Quarterly,
			want:       floatPtr(2),
			wantMethod: "historical_quarterly_calculation",
		},
		{
			name:       "monthly history",
			series:     seriesEvery("2023-06-01", 14, 30, 0.1),
			freq:       Monthly,
			want:       floatPtr(1.2),
			wantMethod: "historical_monthly_calculation",
		},
		{
			name:       "unclassified history",
			series:     seriesEvery("2024-01-01", 2, 90, 0.5),
			freq:       FrequencyInsufficientData,
			wantMethod: MethodFailedNotEnoughData,
		},
		{
			name:       "nothing available",
			info:       StockInfo{"dividendYield": 0.04},
			wantMethod: MethodFailedNotEnoughData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, method := DividendRate(tt.price, tt.info, tt.series, tt.freq)
			assert.Equal(t, tt.wantMethod, method)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestPayoutRatio(t *testing.T) {
	tests := []struct {
		name       string
		info       StockInfo
		rate       *float64
		want       *float64
		wantMethod string
	}{
		{"reported ratio", StockInfo{"payoutRatio": 0.45}, nil, floatPtr(0.45), MethodDirectFromInfo},
		{"no rate", StockInfo{"trailingEps": 4.0}, nil, nil, MethodNoDividendRate},
		{"zero rate", StockInfo{"trailingEps": 4.0}, floatPtr(0), nil, MethodNoDividendRate},
		{"eps based", StockInfo{"trailingEps": 4.0}, floatPtr(2), floatPtr(0.5), MethodEPSBased},
		{"income based", StockInfo{"netIncome": 1e9, "sharesOutstanding": 5e8}, floatPtr(1), floatPtr(0.5), MethodIncomeBased},
		{"not enough data", StockInfo{"netIncome": 1e9}, floatPtr(1), nil, MethodFailedNotEnoughData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, method := PayoutRatio(tt.info, tt.rate)
			assert.Equal(t, tt.wantMethod, method)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestLatestExDate(t *testing.T) {
	series := seriesOf("2024-02-01", "2024-05-01")

	assert.Equal(t, "2024-05-10", LatestExDate(StockInfo{"exDividendDate": 1717200000}, &Calendar{ExDividendDate: datePtr("2024-05-10")}, series))
	assert.Equal(t, "2024-06-01", LatestExDate(StockInfo{"exDividendDate": 1717200000}, &Calendar{}, series))
	assert.Equal(t, "2024-05-01", LatestExDate(nil, nil, series))
	assert.Equal(t, "", LatestExDate(nil, nil, nil))
}
