package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	"discord-automod-bot/internal/redis"

	"github.com/dgraph-io/ristretto"
	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

// Cache is a two-layer read cache in front of Postgres for guild automod
// configuration: L1 in-memory (typed values), L2 Redis (JSON), with
// singleflight so a cold guild costs one DB round-trip, not one per
// concurrent message.
type Cache struct {
	l1           *ristretto.Cache
	l2           *redis.Client
	singleflight singleflight.Group
	ttl          time.Duration

	// Metrics
	l1Hits   atomic.Uint64
	l1Misses atomic.Uint64
	l2Hits   atomic.Uint64
	l2Misses atomic.Uint64
}

// Config for cache initialization
type Config struct {
	L1MaxCost     int64         // Max cost in bytes for L1 cache (default: 10MB)
	L1NumCounters int64         // Number of keys to track frequency (default: 100k)
	DefaultTTL    time.Duration // TTL for cached config entries
}

// NewCache creates a new two-layer cache. The Redis client may be nil, in
// which case only L1 is used.
func NewCache(rdb *redis.Client, cfg Config) (*Cache, error) {
	if cfg.L1MaxCost == 0 {
		cfg.L1MaxCost = 10 << 20 // 10MB default
	}
	if cfg.L1NumCounters == 0 {
		cfg.L1NumCounters = 100000
	}
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}

	l1, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.L1NumCounters,
		MaxCost:     cfg.L1MaxCost,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create L1 cache: %w", err)
	}

	return &Cache{
		l1:  l1,
		l2:  rdb,
		ttl: cfg.DefaultTTL,
	}, nil
}

// getTyped resolves key through L1 -> L2 -> fetch, storing on the way back.
// L2 holds JSON so distinct processes share warm config.
func getTyped[T any](c *Cache, key string, fetch func() (T, error)) (T, error) {
	if v, found := c.l1.Get(key); found {
		c.l1Hits.Add(1)
		return v.(T), nil
	}
	c.l1Misses.Add(1)

	v, err, _ := c.singleflight.Do(key, func() (interface{}, error) {
		if c.l2 != nil {
			if raw, err := c.l2.Get(key); err == nil && raw != "" {
				var decoded T
				if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
					c.l2Hits.Add(1)
					c.l1.SetWithTTL(key, decoded, 1, c.ttl)
					return decoded, nil
				}
			}
			c.l2Misses.Add(1)
		}

		fetched, err := fetch()
		if err != nil {
			return nil, err
		}
		c.store(key, fetched)
		return fetched, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// store writes a value into both layers.
func (c *Cache) store(key string, value interface{}) {
	c.l1.SetWithTTL(key, value, 1, c.ttl)
	if c.l2 != nil {
		if raw, err := json.Marshal(value); err == nil {
			c.l2.Set(key, string(raw), c.ttl)
		}
	}
}

// Delete removes a key from all cache layers
func (c *Cache) Delete(keys ...string) {
	for _, key := range keys {
		c.l1.Del(key)
	}
	if c.l2 != nil {
		c.l2.Del(keys...)
	}
}

// GetMetrics returns cache performance metrics
func (c *Cache) GetMetrics() Metrics {
	l1Metrics := c.l1.Metrics

	l1Total := c.l1Hits.Load() + c.l1Misses.Load()
	l2Total := c.l2Hits.Load() + c.l2Misses.Load()

	var l1HitRate, l2HitRate float64
	if l1Total > 0 {
		l1HitRate = float64(c.l1Hits.Load()) / float64(l1Total)
	}
	if l2Total > 0 {
		l2HitRate = float64(c.l2Hits.Load()) / float64(l2Total)
	}

	return Metrics{
		L1Hits:        c.l1Hits.Load(),
		L1Misses:      c.l1Misses.Load(),
		L1HitRate:     l1HitRate,
		L2Hits:        c.l2Hits.Load(),
		L2Misses:      c.l2Misses.Load(),
		L2HitRate:     l2HitRate,
		L1KeysAdded:   l1Metrics.KeysAdded(),
		L1KeysEvicted: l1Metrics.KeysEvicted(),
	}
}

// Metrics holds cache performance data
type Metrics struct {
	L1Hits        uint64
	L1Misses      uint64
	L1HitRate     float64
	L2Hits        uint64
	L2Misses      uint64
	L2HitRate     float64
	L1KeysAdded   uint64
	L1KeysEvicted uint64
}

// Close gracefully shuts down the cache
func (c *Cache) Close() {
	c.l1.Close()
}
