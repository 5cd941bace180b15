package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/logging"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/storage"
)

// Cache key prefix for aggregation responses. Every mutation invalidates
// the whole prefix so reads always reflect the latest writes.
const aggCachePrefix = "agg:"

// ResponseCache is a read-through cache for aggregation responses backed
// by Redis. A nil receiver or nil backing store disables caching, so the
// server keeps working when Redis is unavailable.
type ResponseCache struct {
	redis *storage.RedisCache
	ttl   time.Duration
}

// NewResponseCache creates a ResponseCache. redis may be nil.
func NewResponseCache(redis *storage.RedisCache, ttl time.Duration) *ResponseCache {
	return &ResponseCache{redis: redis, ttl: ttl}
}

func (c *ResponseCache) enabled() bool {
	return c != nil && c.redis != nil
}

// GetJSON looks up key and unmarshals the cached payload into dest.
// Returns true only on a usable hit. Cache failures are logged and
// treated as misses.
func (c *ResponseCache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if !c.enabled() {
		return false
	}
	raw, found, err := c.redis.Get(ctx, aggCachePrefix+key)
	if err != nil {
		logging.GetGlobalLogger().WithError(err).WithField("key", key).Warn("cache read failed")
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logging.GetGlobalLogger().WithError(err).WithField("key", key).Warn("cache payload corrupt")
		return false
	}
	return true
}

// SetJSON stores value under key for the configured TTL. Failures are
// logged and never surfaced to the caller.
func (c *ResponseCache) SetJSON(ctx context.Context, key string, value interface{}) {
	if !c.enabled() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logging.GetGlobalLogger().WithError(err).WithField("key", key).Warn("cache marshal failed")
		return
	}
	if err := c.redis.Set(ctx, aggCachePrefix+key, string(raw), c.ttl); err != nil {
		logging.GetGlobalLogger().WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

// Invalidate drops every cached aggregation response. Called after each
// wallet or entry mutation.
func (c *ResponseCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.redis.DelPattern(ctx, aggCachePrefix+"*"); err != nil {
		logging.GetGlobalLogger().WithError(err).Warn("cache invalidation failed")
	}
}
