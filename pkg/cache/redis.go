package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

// NewRedisClient creates a Redis client and verifies the connection
func NewRedisClient(ctx context.Context, config RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if config.Password != "" {
		opts.Password = config.Password
	}
	if config.DB >= 0 {
		opts.DB = config.DB
	}
	if config.MaxRetries > 0 {
		opts.MaxRetries = config.MaxRetries
	}
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// RedisStore is a Store shared between processes through Redis.
// Values are stored as JSON.
type RedisStore[V any] struct {
	client         *redis.Client
	prefix         string
	ttl            time.Duration
	computeTimeout time.Duration
	group          singleflight.Group
	counters       counters
}

var _ Store[int] = (*RedisStore[int])(nil)

// NewRedisStore creates a store on an existing client
func NewRedisStore[V any](client *redis.Client, config RedisConfig) *RedisStore[V] {
	computeTimeout := config.ComputeTimeout
	if computeTimeout <= 0 {
		computeTimeout = DefaultComputeTimeout
	}
	return &RedisStore[V]{
		client:         client,
		prefix:         config.KeyPrefix,
		ttl:            config.TTL,
		computeTimeout: computeTimeout,
	}
}

func (s *RedisStore[V]) key(key string) string {
	return s.prefix + key
}

// GetOrCompute implements Store. When two processes compute the same key,
// the value written first is returned to both. The computation is shared by
// every concurrent caller of key, so it runs detached from the caller that
// started it, bounded by the store's compute timeout. A caller whose ctx ends
// first returns ctx.Err() while the computation carries on and stores its value.
func (s *RedisStore[V]) GetOrCompute(ctx context.Context, key string, compute ComputeFunc[V]) (V, bool, error) {
	var zero V
	if key == "" {
		return zero, false, ErrInvalidCacheKey
	}

	value, ok, err := s.load(ctx, key)
	if err != nil {
		return zero, false, err
	}
	if ok {
		s.counters.hits.Add(1)
		return value, true, nil
	}
	s.counters.misses.Add(1)

	ch := s.group.DoChan(key, func() (result interface{}, err error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.computeTimeout)
		defer cancel()

		// DoChan re-panics on its own goroutine
		defer func() {
			if r := recover(); r != nil {
				result, err = nil, fmt.Errorf("panic computing %s: %v", key, r)
			}
		}()

		return s.computeAndStore(sharedCtx, key, compute)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		return res.Val.(V), false, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

func (s *RedisStore[V]) computeAndStore(ctx context.Context, key string, compute ComputeFunc[V]) (V, error) {
	var zero V

	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	stored, err := s.client.SetNX(ctx, s.key(key), data, s.ttl).Result()
	if err != nil {
		return zero, fmt.Errorf("%w: redis setnx failed: %v", ErrCacheUnavailable, err)
	}
	if stored {
		return value, nil
	}

	// Another process won the race; adopt its value
	winner, ok, err := s.load(ctx, key)
	if err != nil {
		return zero, err
	}
	if !ok {
		return value, nil
	}
	return winner, nil
}

// load reads and decodes key. Corrupt entries are deleted and reported as missing.
func (s *RedisStore[V]) load(ctx context.Context, key string) (V, bool, error) {
	var value V

	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("%w: redis get failed: %v", ErrCacheUnavailable, err)
	}

	if err := json.Unmarshal(data, &value); err != nil {
		s.client.Del(ctx, s.key(key))
		var zero V
		return zero, false, nil
	}

	return value, true, nil
}

// Stats implements Store. ItemCount counts keys under the store's prefix.
func (s *RedisStore[V]) Stats(ctx context.Context) (*Stats, error) {
	var items int64
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		items++
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: redis scan failed: %v", ErrCacheUnavailable, err)
	}
	return s.counters.snapshot(items), nil
}

// Backend implements Store
func (s *RedisStore[V]) Backend() string {
	return BackendRedis
}

// Ping checks connectivity
func (s *RedisStore[V]) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
