package cache

import (
	"context"
	"time"

	"plume/internal/observability"

	"github.com/redis/go-redis/v9"
)

// ResponseCache memoizes fully rendered response bodies keyed by the full
// request signature. Only the home feed uses it; every other listing is
// composed fresh. Expiry is TTL-only; concurrent misses may both
// recompute and the last writer wins, which is harmless since both wrote
// a valid rendering of the same window.
type ResponseCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewResponseCache returns a ResponseCache over the given client. A nil
// client yields a cache that always misses.
func NewResponseCache(rdb *redis.Client, ttl time.Duration) *ResponseCache {
	return &ResponseCache{rdb: rdb, ttl: ttl}
}

// Get returns the stored rendered body for key, if any.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if rc == nil || rc.rdb == nil {
		observability.FeedCacheMisses.Inc()
		return nil, false
	}
	b, err := rc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		observability.FeedCacheMisses.Inc()
		return nil, false
	}
	observability.FeedCacheHits.Inc()
	return b, true
}

// Store saves the rendered body under key for the cache window. Failures
// are swallowed; serving fresh responses matters more than caching them.
func (rc *ResponseCache) Store(ctx context.Context, key string, body []byte) {
	if rc == nil || rc.rdb == nil {
		return
	}
	_ = rc.rdb.Set(ctx, key, body, rc.ttl).Err()
}
