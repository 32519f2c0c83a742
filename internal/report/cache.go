package report

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "report:"

// cachedReports lists every report name the cache may hold, for invalidation.
var cachedReports = []string{"profit", "active_borrows", "borrow_counts", "buy_counts", "violations"}

// Cache is a Redis-backed result cache keyed by report name. Caching is
// best-effort: a Redis failure degrades to recomputing the report, never to a
// request failure. A nil *Cache is valid and disables caching.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a cache over the given Redis client.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// get loads a cached report into dest, reporting whether it was found.
func (c *Cache) get(ctx context.Context, name string, dest any) bool {
	if c == nil {
		return false
	}

	data, err := c.client.Get(ctx, cacheKeyPrefix+name).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("report cache read failed", "report", name, "error", err)
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		slog.Warn("report cache decode failed", "report", name, "error", err)
		return false
	}
	return true
}

// set stores a computed report.
func (c *Cache) set(ctx context.Context, name string, v any) {
	if c == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("report cache encode failed", "report", name, "error", err)
		return
	}

	if err := c.client.Set(ctx, cacheKeyPrefix+name, data, c.ttl).Err(); err != nil {
		slog.Warn("report cache write failed", "report", name, "error", err)
	}
}

// Invalidate drops every cached report. Called after any mutation that could
// change a report.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	keys := make([]string, len(cachedReports))
	for i, name := range cachedReports {
		keys[i] = cacheKeyPrefix + name
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("report cache invalidation failed", "error", err)
	}
}
