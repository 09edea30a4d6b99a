package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedCacheHits counts home-feed responses served from the response cache.
	FeedCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plume_feed_cache_hits_total",
		Help: "Total number of home feed responses served from cache",
	})

	// FeedCacheMisses counts home-feed requests that had to be composed fresh.
	FeedCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plume_feed_cache_misses_total",
		Help: "Total number of home feed requests composed fresh",
	})

	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plume_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plume_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
