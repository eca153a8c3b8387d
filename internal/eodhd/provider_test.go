package eodhd

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/divcast/internal/common"
)

var fastRetry = common.RetryConfig{
	MaxAttempts:    3,
	InitialBackoff: time.Millisecond,
	MaxBackoff:     time.Millisecond,
	Multiplier:     1,
}

func TestProvider_Fetch(t *testing.T) {
	var divCalls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fundamentals/EXM.US":
			_, _ = w.Write([]byte(`{
				"General": {"Name":"Example Corp"},
				"Highlights": {"EarningsShare":4},
				"SplitsDividends": {"ForwardAnnualDividendRate":2,"ExDividendDate":"0000-00-00","DividendDate":"0000-00-00"}
			}`))
		case "/div/EXM.US":
			// First call fails the way EODHD sometimes does for valid symbols.
			if divCalls.Add(1) == 1 {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(`[
				{"date":"2023-11-10","paymentDate":"2023-12-01","value":0.5},
				{"date":"2024-02-09","paymentDate":"2024-03-01","value":0.5}
			]`))
		case "/real-time/EXM.US":
			_, _ = w.Write([]byte(`{"code":"EXM.US","close":50,"previousClose":49}`))
		default:
			http.NotFound(w, r)
		}
	})

	provider := NewProvider(client, arbor.NewLogger(), WithRetryConfig(fastRetry))
	inputs, err := provider.Fetch(context.Background(), "EXM.US")
	require.NoError(t, err)

	assert.Equal(t, int32(2), divCalls.Load())
	require.Len(t, inputs.Series, 2)
	require.True(t, inputs.Calendar.HasBoth())
	assert.Equal(t, "2024-03-01", inputs.Calendar.DividendDate.Format(dateLayout))

	price, ok := inputs.Info.Price()
	require.True(t, ok)
	assert.Equal(t, 50.0, price)

	rate, ok := inputs.Info.Float("dividendRate")
	require.True(t, ok)
	assert.Equal(t, 2.0, rate)
}

func TestProvider_Fetch_PriceFallsBackToEOD(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fundamentals/EXM.US":
			_, _ = w.Write([]byte(`{}`))
		case "/div/EXM.US":
			_, _ = w.Write([]byte(`[]`))
		case "/real-time/EXM.US":
			http.Error(w, "forbidden", http.StatusForbidden)
		case "/eod/EXM.US":
			assert.Equal(t, "d", r.URL.Query().Get("order"))
			_, _ = w.Write([]byte(`[{"date":"2024-06-14","close":42.5},{"date":"2024-06-13","close":41}]`))
		default:
			http.NotFound(w, r)
		}
	})

	provider := NewProvider(client, arbor.NewLogger(), WithRetryConfig(fastRetry))
	inputs, err := provider.Fetch(context.Background(), "EXM.US")
	require.NoError(t, err)

	assert.Empty(t, inputs.Series)
	price, ok := inputs.Info.Price()
	require.True(t, ok)
	assert.Equal(t, 42.5, price)
}

func TestProvider_Fetch_FailsWhenDividendsUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fundamentals/EXM.US":
			_, _ = w.Write([]byte(`{}`))
		default:
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}
	})

	provider := NewProvider(client, arbor.NewLogger(), WithRetryConfig(fastRetry))
	_, err := provider.Fetch(context.Background(), "EXM.US")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch dividends for EXM.US")
}
