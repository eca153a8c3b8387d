package dividend

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyInterval(t *testing.T) {
	tests := []struct {
		interval float64
		want     Frequency
	}{
		{1, Monthly},
		{30, Monthly},
		{34, Monthly},
		{34.9, Monthly},
		{35, Quarterly},
		{90, Quarterly},
		{94, Quarterly},
		{95, SemiAnnual},
		{184, SemiAnnual},
		{185, Annual},
		{365, Annual},
		{-1, FrequencyUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyInterval(tt.interval), "interval %v", tt.interval)
	}
}

func TestFrequency_PaymentsNeeded(t *testing.T) {
	assert.Equal(t, 12, Monthly.PaymentsNeeded())
	assert.Equal(t, 4, Quarterly.PaymentsNeeded())
	assert.Equal(t, 2, SemiAnnual.PaymentsNeeded())
	assert.Equal(t, 1, Annual.PaymentsNeeded())
	assert.Equal(t, 0, FrequencyInsufficientData.PaymentsNeeded())
	assert.False(t, FrequencyUnknown.IsValid())
	assert.True(t, SemiAnnual.IsValid())
}

func TestNewSeries_SortsAndDeduplicates(t *testing.T) {
	series := NewSeries([]ExDividendEvent{
		{Date: time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC), Amount: 0.5},
		{Date: mustDate("2023-12-01"), Amount: 0.4},
		{Date: mustDate("2024-03-01"), Amount: 0.55},
		{Date: mustDate("2024-06-01"), Amount: -1},
	})

	require.Len(t, series, 2)
	assert.Equal(t, mustDate("2023-12-01"), series[0].Date)
	assert.Equal(t, mustDate("2024-03-01"), series[1].Date)
	assert.Equal(t, 0.55, series[1].Amount)
}

func TestSeries_TailAndSince(t *testing.T) {
	series := seriesOf("2021-01-01", "2022-01-01", "2023-01-01", "2024-01-01")

	assert.Len(t, series.Tail(2), 2)
	assert.Len(t, series.Tail(10), 4)
	assert.Empty(t, series.Tail(0))

	since := series.Since(mustDate("2022-01-01"))
	require.Len(t, since, 3)
	assert.Equal(t, mustDate("2022-01-01"), since[0].Date)
	assert.Empty(t, series.Since(mustDate("2025-01-01")))
}

func TestStockInfo_Float(t *testing.T) {
	info := StockInfo{
		"float":   1.5,
		"int":     3,
		"string":  " 2.25 ",
		"number":  json.Number("4.5"),
		"zero":    0.0,
		"empty":   "",
		"text":    "n/a",
		"nil":     nil,
		"boolean": true,
	}

	tests := []struct {
		key    string
		want   float64
		wantOK bool
	}{
		{"float", 1.5, true},
		{"int", 3, true},
		{"string", 2.25, true},
		{"number", 4.5, true},
		{"zero", 0, false},
		{"empty", 0, false},
		{"text", 0, false},
		{"nil", 0, false},
		{"boolean", 0, false},
		{"missing", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := info.Float(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStockInfo_PriceFallbacks(t *testing.T) {
	price, ok := StockInfo{"regularMarketPrice": 10.0, "previousClose": 9.0}.Price()
	require.True(t, ok)
	assert.Equal(t, 10.0, price)

	price, ok = StockInfo{"currentPrice": 0.0, "previousClose": 9.0}.Price()
	require.True(t, ok)
	assert.Equal(t, 9.0, price)

	_, ok = StockInfo{}.Price()
	assert.False(t, ok)
}

func TestLastDividend_MarshalJSON(t *testing.T) {
	amount := 0.5
	data, err := json.Marshal(LastDividend{Date: datePtr("2024-05-31"), Amount: &amount, Method: MethodExDividendPlusGapBasic})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-05-31","amount":0.5,"estimation_method":"ex_dividend_plus_gap_basic"}`, string(data))

	data, err = json.Marshal(LastDividend{Method: MethodNoDividendHistory})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":null,"amount":null,"estimation_method":"no_dividend_history"}`, string(data))
}

func TestLastDividend_UnmarshalJSON(t *testing.T) {
	var l LastDividend
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-05-31","amount":0.5,"estimation_method":"direct_from_calendar"}`), &l))
	require.NotNil(t, l.Date)
	assert.Equal(t, "2024-05-31", l.DateString())
	require.NotNil(t, l.Amount)
	assert.Equal(t, 0.5, *l.Amount)
	assert.Equal(t, MethodDirectFromCalendar, l.Method)

	require.NoError(t, json.Unmarshal([]byte(`{"date":null,"amount":null,"estimation_method":"no_dividend_history"}`), &l))
	assert.Nil(t, l.Date)
	assert.Nil(t, l.Amount)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"31/05/2024"}`), &l))
}
