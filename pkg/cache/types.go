package cache

import (
	"context"
	"sync/atomic"
	"time"
)

// Backend names reported by Store.Backend
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// DefaultComputeTimeout bounds a shared RedisStore computation when
// RedisConfig.ComputeTimeout is unset
const DefaultComputeTimeout = 30 * time.Second

// ComputeFunc produces the value for a missing key
type ComputeFunc[V any] func(ctx context.Context) (V, error)

// Store is a memoizing cache keyed by string
type Store[V any] interface {
	// GetOrCompute returns the cached value for key, computing and storing it
	// on a miss. hit reports whether the value was already present.
	GetOrCompute(ctx context.Context, key string, compute ComputeFunc[V]) (value V, hit bool, err error)
	// Stats returns hit/miss counters
	Stats(ctx context.Context) (*Stats, error)
	// Backend names the storage backend
	Backend() string
}

// Stats represents cache statistics
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
	ItemCount int64   `json:"item_count"`
}

// Config configures a MemoryStore
type Config struct {
	// MaxEntries bounds the number of keys. Zero keeps every key for the
	// lifetime of the process.
	MaxEntries int
}

// RedisConfig configures a RedisStore and its client
type RedisConfig struct {
	URL        string
	Password   string
	DB         int
	MaxRetries int
	PoolSize   int
	KeyPrefix  string

	// TTL of stored values; zero means no expiry
	TTL time.Duration

	// ComputeTimeout bounds a computation and its write once started
	ComputeTimeout time.Duration
}

// counters tracks cache metrics
type counters struct {
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

func (c *counters) snapshot(items int64) *Stats {
	stats := &Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		ItemCount: items,
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}
