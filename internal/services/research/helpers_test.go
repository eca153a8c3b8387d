package research

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/divcast/internal/dividend"
	"github.com/ternarybob/divcast/internal/interfaces"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

// mockKVStorage implements interfaces.KeyValueStorage for testing
type mockKVStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockKVStorage() *mockKVStorage {
	return &mockKVStorage{data: make(map[string]string)}
}

func (m *mockKVStorage) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", interfaces.ErrKeyNotFound
}

func (m *mockKVStorage) Set(ctx context.Context, key, value, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockKVStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return interfaces.ErrKeyNotFound
	}
	delete(m.data, key)
	return nil
}

func (m *mockKVStorage) ListByPrefix(ctx context.Context, prefix string) ([]interfaces.KeyValuePair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pairs []interfaces.KeyValuePair
	for k, v := range m.data {
		if strings.HasPrefix(k, prefix) {
			pairs = append(pairs, interfaces.KeyValuePair{Key: k, Value: v})
		}
	}
	return pairs, nil
}

func (m *mockKVStorage) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// mockProvider serves canned inputs per symbol and counts calls.
type mockProvider struct {
	mu     sync.Mutex
	inputs map[string]*dividend.Inputs
	calls  map[string]int
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		inputs: make(map[string]*dividend.Inputs),
		calls:  make(map[string]int),
	}
}

func (p *mockProvider) Fetch(ctx context.Context, symbol string) (*dividend.Inputs, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[symbol]++
	in, ok := p.inputs[symbol]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *in
	return &copied, nil
}

func (p *mockProvider) callCount(symbol string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[symbol]
}

// quarterlyInputs is a regular quarterly payer with a stale calendar.
func quarterlyInputs() *dividend.Inputs {
	first := time.Date(2021, 8, 10, 0, 0, 0, 0, time.UTC)
	events := make([]dividend.ExDividendEvent, 12)
	for i := range events {
		events[i] = dividend.ExDividendEvent{Date: first.AddDate(0, 0, i*91), Amount: 0.24}
	}
	return &dividend.Inputs{
		Info: dividend.StockInfo{
			"longName":     "Apple Inc",
			"sector":       "Technology",
			"currency":     "USD",
			"currentPrice": 190.0,
			"marketCap":    2.9e12,
		},
		Series: dividend.NewSeries(events),
	}
}

func newTestService(t *testing.T, provider *mockProvider, kv interfaces.KeyValueStorage) *Service {
	t.Helper()
	logger := createTestLogger()
	cache := NewCache(kv, logger, time.Minute)
	return NewService(provider, cache, logger, nil).WithClock(func() time.Time { return testNow })
}
