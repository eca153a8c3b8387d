package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/divcast/internal/dividend"
	"github.com/ternarybob/divcast/internal/interfaces"
)

const (
	// DefaultCacheTTL is how long a persisted snapshot stays valid.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultMemoryTTL is how long a snapshot stays in the in-process tier.
	DefaultMemoryTTL = 15 * time.Minute

	// KeyPrefix is the prefix for snapshot keys in KV storage.
	KeyPrefix = "research:snapshot:"
)

// Snapshot is the cached provider data for one symbol.
type Snapshot struct {
	Symbol    string          `json:"symbol"`
	Inputs    dividend.Inputs `json:"inputs"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Cache keeps fetched snapshots in memory and in the persistent KV store.
// A disabled cache neither reads nor writes.
type Cache struct {
	kv     interfaces.KeyValueStorage
	memory *cache.Cache
	logger arbor.ILogger
	now    func() time.Time

	mu      sync.RWMutex
	enabled bool
	ttl     time.Duration
}

// NewCache creates an enabled cache. kv may be nil for a memory-only cache.
func NewCache(kv interfaces.KeyValueStorage, logger arbor.ILogger, memoryTTL time.Duration) *Cache {
	if memoryTTL <= 0 {
		memoryTTL = DefaultMemoryTTL
	}
	return &Cache{
		kv:      kv,
		memory:  cache.New(memoryTTL, 2*memoryTTL),
		logger:  logger,
		now:     time.Now,
		enabled: true,
		ttl:     DefaultCacheTTL,
	}
}

// Enable turns caching on for future reads and writes.
func (c *Cache) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = true
}

// Disable turns caching off for future reads and writes.
func (c *Cache) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = false
}

// Enabled reports whether caching is on.
func (c *Cache) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// SetTTL sets how long persisted entries remain valid.
func (c *Cache) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = ttl
}

// TTL returns the persisted entry lifetime.
func (c *Cache) TTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ttl
}

func key(symbol string) string {
	return KeyPrefix + strings.ToUpper(strings.TrimSpace(symbol))
}

// Get returns the snapshot for symbol when it exists and has not expired.
// Expired persisted entries are deleted.
func (c *Cache) Get(ctx context.Context, symbol string) (*Snapshot, bool) {
	if !c.Enabled() {
		return nil, false
	}
	k := key(symbol)
	ttl := c.TTL()

	if v, ok := c.memory.Get(k); ok {
		snap := v.(*Snapshot)
		if c.now().Sub(snap.FetchedAt) < ttl {
			return snap, true
		}
		c.memory.Delete(k)
	}

	if c.kv == nil {
		return nil, false
	}

	value, err := c.kv.Get(ctx, k)
	if err != nil {
		if !errors.Is(err, interfaces.ErrKeyNotFound) {
			c.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to read cached snapshot")
		}
		return nil, false
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("Discarding unreadable cached snapshot")
		_ = c.kv.Delete(ctx, k)
		return nil, false
	}

	if c.now().Sub(snap.FetchedAt) >= ttl {
		c.logger.Debug().Str("symbol", symbol).Str("fetched_at", snap.FetchedAt.Format(time.RFC3339)).Msg("Cached snapshot expired")
		if err := c.kv.Delete(ctx, k); err != nil && !errors.Is(err, interfaces.ErrKeyNotFound) {
			c.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to delete expired snapshot")
		}
		return nil, false
	}

	c.memory.SetDefault(k, &snap)
	return &snap, true
}

// Set stores a snapshot in both tiers. It is a no-op while disabled.
func (c *Cache) Set(ctx context.Context, snap *Snapshot) error {
	if !c.Enabled() || snap == nil {
		return nil
	}
	k := key(snap.Symbol)
	c.memory.SetDefault(k, snap)

	if c.kv == nil {
		return nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	description := fmt.Sprintf("Dividend inputs for %s, fetched at %s", snap.Symbol, snap.FetchedAt.Format(time.RFC3339))
	if err := c.kv.Set(ctx, k, string(data), description); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Clear removes every cached snapshot and returns how many persisted entries were deleted.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	c.memory.Flush()
	if c.kv == nil {
		return 0, nil
	}

	pairs, err := c.kv.ListByPrefix(ctx, KeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list cached snapshots: %w", err)
	}

	deleted := 0
	for _, pair := range pairs {
		if err := c.kv.Delete(ctx, pair.Key); err != nil && !errors.Is(err, interfaces.ErrKeyNotFound) {
			return deleted, fmt.Errorf("failed to delete %s: %w", pair.Key, err)
		}
		deleted++
	}

	c.logger.Info().Int("deleted", deleted).Msg("Cleared research cache")
	return deleted, nil
}
