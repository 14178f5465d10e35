// Package cache is the short-lived response cache that sits in front of the
// card provider. Entries live in an in-process LRU with a fixed TTL and can
// optionally be mirrored to Redis so several proxy instances share results.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/codyseavey/card-proxy/internal/logging"
	"github.com/codyseavey/card-proxy/internal/metrics"
)

const (
	tierMemory = "memory"
	tierRedis  = "redis"
)

// Options configures a Cache.
type Options struct {
	// Size is the maximum number of in-process entries.
	Size int
	// TTL is measured from the last write of a key.
	TTL time.Duration
	// Shared is an optional second tier, usually a RedisTier.
	Shared Tier
}

// Tier is a shared cache backend. Values are opaque encoded bytes. Get also
// returns the time the entry has left to live; a value <= 0 means the entry
// has no expiry.
type Tier interface {
	Get(ctx context.Context, key string) ([]byte, time.Duration, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// memEntry carries its own deadline so entries copied from the shared tier
// keep the expiry of the original write instead of a fresh TTL.
type memEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Cache stores JSON-encoded values, so a cached value can never be mutated by
// a caller after it is stored and readers always see a complete value.
type Cache struct {
	mem    *expirable.LRU[string, memEntry]
	shared Tier
	ttl    time.Duration
	logger zerolog.Logger
}

// New creates a cache. Size <= 0 falls back to 500 entries.
func New(opts Options) *Cache {
	size := opts.Size
	if size <= 0 {
		size = 500
	}
	return &Cache{
		// The LRU runs a purge goroutine for the life of the process.
		mem:    expirable.NewLRU[string, memEntry](size, nil, opts.TTL),
		shared: opts.Shared,
		ttl:    opts.TTL,
		logger: logging.NewLogger("cache"),
	}
}

// Get decodes the value stored under key into dst and reports whether it was
// found. Shared-tier failures are logged and treated as misses.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	if e, ok := c.mem.Get(key); ok {
		if !e.expired(time.Now()) {
			if err := decode(e.data, dst); err == nil {
				metrics.CacheHits.WithLabelValues(tierMemory).Inc()
				c.logger.Debug().Str("key", key).Str("tier", tierMemory).Msg("cache hit")
				return true
			}
		}
		c.mem.Remove(key)
	}

	if c.shared != nil {
		data, remaining, ok, err := c.shared.Get(ctx, key)
		if err != nil {
			metrics.CacheErrors.WithLabelValues("get").Inc()
			c.logger.Warn().Err(err).Str("key", key).Msg("shared cache get failed")
		} else if ok {
			if err := decode(data, dst); err == nil {
				c.promote(key, data, remaining)
				metrics.CacheHits.WithLabelValues(tierRedis).Inc()
				c.logger.Debug().Str("key", key).Str("tier", tierRedis).Msg("cache hit")
				return true
			}
			c.logger.Warn().Str("key", key).Msg("discarding undecodable shared cache entry")
		}
	}

	metrics.CacheMisses.Inc()
	return false
}

// Set stores value under key, replacing any previous value and restarting its
// expiry.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		metrics.CacheErrors.WithLabelValues("set").Inc()
		c.logger.Error().Err(err).Str("key", key).Msg("failed to encode cache value")
		return
	}

	c.mem.Add(key, memEntry{data: data, expiresAt: c.deadline(time.Now(), c.ttl)})
	metrics.CacheEntries.Set(float64(c.mem.Len()))

	if c.shared != nil {
		if err := c.shared.Set(ctx, key, data, c.ttl); err != nil {
			metrics.CacheErrors.WithLabelValues("set").Inc()
			c.logger.Warn().Err(err).Str("key", key).Msg("shared cache set failed")
		}
	}
}

// promote copies a shared-tier hit into memory with the time it has left.
// An entry with no shared expiry is only promoted when the cache itself has
// no TTL.
func (c *Cache) promote(key string, data []byte, remaining time.Duration) {
	if remaining <= 0 && c.ttl > 0 {
		return
	}
	c.mem.Add(key, memEntry{data: data, expiresAt: c.deadline(time.Now(), remaining)})
	metrics.CacheEntries.Set(float64(c.mem.Len()))
}

func (c *Cache) deadline(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

// decode keeps numbers as json.Number so values held in interface fields
// re-encode exactly as they were stored.
func decode(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(dst)
}

// Len returns the number of live in-process entries.
func (c *Cache) Len() int {
	return c.mem.Len()
}
