package research

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(kv *mockKVStorage, now *time.Time) *Cache {
	c := NewCache(kv, createTestLogger(), time.Minute)
	c.now = func() time.Time { return *now }
	return c
}

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	kv := newMockKVStorage()
	now := testNow
	c := newTestCache(kv, &now)

	snap := &Snapshot{Symbol: "aapl.us", Inputs: *quarterlyInputs(), FetchedAt: now}
	require.NoError(t, c.Set(ctx, snap))
	assert.True(t, kv.has(KeyPrefix+"AAPL.US"))

	got, ok := c.Get(ctx, "AAPL.US")
	require.True(t, ok)
	assert.Equal(t, "aapl.us", got.Symbol)

	// A fresh cache over the same store reads the persisted tier.
	other := newTestCache(kv, &now)
	got, ok = other.Get(ctx, "Aapl.Us")
	require.True(t, ok)
	assert.Len(t, got.Inputs.Series, 12)
	price, ok := got.Inputs.Info.Price()
	require.True(t, ok)
	assert.Equal(t, 190.0, price)
}

func TestCache_ExpiredEntryDeleted(t *testing.T) {
	ctx := context.Background()
	kv := newMockKVStorage()
	now := testNow
	c := newTestCache(kv, &now)
	c.SetTTL(time.Hour)

	require.NoError(t, c.Set(ctx, &Snapshot{Symbol: "KO.US", FetchedAt: now}))

	now = now.Add(2 * time.Hour)
	_, ok := c.Get(ctx, "KO.US")
	assert.False(t, ok)
	assert.False(t, kv.has(KeyPrefix+"KO.US"))
}

func TestCache_Disabled(t *testing.T) {
	ctx := context.Background()
	kv := newMockKVStorage()
	now := testNow
	c := newTestCache(kv, &now)

	c.Disable()
	assert.False(t, c.Enabled())
	require.NoError(t, c.Set(ctx, &Snapshot{Symbol: "KO.US", FetchedAt: now}))
	assert.False(t, kv.has(KeyPrefix+"KO.US"))

	c.Enable()
	require.NoError(t, c.Set(ctx, &Snapshot{Symbol: "KO.US", FetchedAt: now}))
	c.Disable()
	_, ok := c.Get(ctx, "KO.US")
	assert.False(t, ok, "disabled cache never reads")
}

func TestCache_Clear(t *testing.T) {
	ctx := context.Background()
	kv := newMockKVStorage()
	now := testNow
	c := newTestCache(kv, &now)

	require.NoError(t, kv.Set(ctx, "other:key", "x", ""))
	for _, s := range []string{"A.US", "B.US", "C.AU"} {
		require.NoError(t, c.Set(ctx, &Snapshot{Symbol: s, FetchedAt: now}))
	}

	deleted, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.True(t, kv.has("other:key"))

	_, ok := c.Get(ctx, "A.US")
	assert.False(t, ok)
}

func TestCache_SetTTLIgnoresNonPositive(t *testing.T) {
	c := NewCache(nil, createTestLogger(), 0)
	assert.Equal(t, DefaultCacheTTL, c.TTL())
	c.SetTTL(0)
	assert.Equal(t, DefaultCacheTTL, c.TTL())
	c.SetTTL(time.Hour)
	assert.Equal(t, time.Hour, c.TTL())
}

func TestCache_UnreadableEntryDiscarded(t *testing.T) {
	ctx := context.Background()
	kv := newMockKVStorage()
	now := testNow
	c := newTestCache(kv, &now)

	require.NoError(t, kv.Set(ctx, KeyPrefix+"BAD.US", "{not json", ""))
	_, ok := c.Get(ctx, "BAD.US")
	assert.False(t, ok)
	assert.False(t, kv.has(KeyPrefix+"BAD.US"))
}
