package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"backtest_service/internal/models"
)

// DefaultTTL is how long a fetched window stays fresh.
const DefaultTTL = 5 * time.Minute

type cacheEntry struct {
	candles   []models.Candle
	expiresAt time.Time
}

// Cache decorates a Provider with a per-window TTL cache. Entries are whole
// fetch results keyed by (symbol, timeframe, since, until); a refresh
// replaces the entry, it never mutates a slice already handed out, so callers
// may keep reading what they got.
type Cache struct {
	inner Provider
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry

	hits, misses int64
}

func NewCache(inner Provider, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func cacheKey(symbol, timeframe string, since, until int64) string {
	return fmt.Sprintf("%s|%s|%d|%d", symbol, models.NormTimeframe(timeframe), since, until)
}

func (c *Cache) GetCandles(ctx context.Context, symbol, timeframe string, since, until int64) ([]models.Candle, error) {
	key := cacheKey(symbol, timeframe, since, until)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return entry.candles, nil
	}

	candles, err := c.inner.GetCandles(ctx, symbol, timeframe, since, until)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.misses++
	c.entries[key] = cacheEntry{candles: candles, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return candles, nil
}

// Put primes the cache from outside the fetch path, for the websocket
// follower.
func (c *Cache) Put(symbol, timeframe string, since, until int64, candles []models.Candle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(symbol, timeframe, since, until)] = cacheEntry{
		candles:   candles,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops every cached window for the symbol.
func (c *Cache) Invalidate(symbol string) {
	prefix := symbol + "|"
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
}

// Stats reports hit/miss counters since start.
func (c *Cache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
