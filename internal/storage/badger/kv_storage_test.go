package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/divcast/internal/common"
	"github.com/ternarybob/divcast/internal/interfaces"
)

func newTestKV(t *testing.T) *KVStorage {
	t.Helper()
	logger := arbor.NewLogger()
	db, err := NewBadgerDB(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewKVStorage(db, logger).(*KVStorage)
}

// storedPair reads the raw record behind key.
func storedPair(t *testing.T, kv *KVStorage, key string) interfaces.KeyValuePair {
	t.Helper()
	var pair interfaces.KeyValuePair
	require.NoError(t, kv.db.Store().Get(key, &pair))
	return pair
}

func TestKVStorage_SetGetDelete(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "Research:Snapshot:AAPL.US", "one", "first"))

	got, err := kv.Get(ctx, "research:snapshot:aapl.us")
	require.NoError(t, err)
	assert.Equal(t, "one", got)

	pair := storedPair(t, kv, "research:snapshot:aapl.us")
	assert.Equal(t, "research:snapshot:aapl.us", pair.Key)
	assert.Equal(t, "first", pair.Description)

	require.NoError(t, kv.Delete(ctx, "research:snapshot:AAPL.US"))
	_, err = kv.Get(ctx, "research:snapshot:aapl.us")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
	assert.ErrorIs(t, kv.Delete(ctx, "missing"), interfaces.ErrKeyNotFound)
}

func TestKVStorage_SetPreservesCreatedAt(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v1", ""))
	first := storedPair(t, kv, "k")

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, kv.Set(ctx, "K", "v2", ""))
	second := storedPair(t, kv, "k")

	assert.Equal(t, "v2", second.Value)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestKVStorage_ListByPrefix(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "research:snapshot:a.us", "a", ""))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, kv.Set(ctx, "other:key", "c", ""))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, kv.Set(ctx, "research:snapshot:b.us", "b", ""))

	pairs, err := kv.ListByPrefix(ctx, "RESEARCH:SNAPSHOT:")
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "research:snapshot:b.us", pairs[0].Key)
	assert.Equal(t, "research:snapshot:a.us", pairs[1].Key)

	none, err := kv.ListByPrefix(ctx, "missing:")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNewBadgerDB_InMemory(t *testing.T) {
	db, err := NewBadgerDB(arbor.NewLogger(), &common.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer db.Close()

	kv := NewKVStorage(db, arbor.NewLogger())
	require.NoError(t, kv.Set(context.Background(), "k", "v", ""))
	got, err := kv.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
