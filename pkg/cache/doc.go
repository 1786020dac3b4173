// Package cache provides memoizing key/value stores with compute-if-absent semantics.
//
// # Overview
//
// A store computes a value the first time a key is requested and hands the
// same value to every later caller. Concurrent misses for one key are
// collapsed into a single computation, and a value only becomes visible once
// it is complete. Failed computations are not stored.
//
// # Backends
//
// MemoryStore: process-local. Unbounded by default; MaxEntries > 0 switches
// to an LRU that evicts the least recently used key.
//
// RedisStore: shared between processes. The first writer of a key wins, and
// later writers adopt the stored value. A computation is not tied to the
// caller that started it: a canceled caller returns early and the value is
// still stored for everyone else, within RedisConfig.ComputeTimeout.
//
// # Usage Example
//
//	store := cache.NewMemoryStore[[]research.ResearchMetric](cache.Config{})
//	metrics, hit, err := store.GetOrCompute(ctx, "alignment", func(ctx context.Context) ([]research.ResearchMetric, error) {
//		return generator.Generate("alignment"), nil
//	})
//
// # Related Packages
//
//   - pkg/research: Caches generated metric series per category
package cache
