package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// entries is the storage behind a MemoryStore
type entries[V any] interface {
	Get(key string) (V, bool)
	Add(key string, value V)
	Len() int
}

// MemoryStore is an in-process Store
type MemoryStore[V any] struct {
	entries  entries[V]
	group    singleflight.Group
	counters counters
}

var _ Store[int] = (*MemoryStore[int])(nil)

// NewMemoryStore creates an in-memory store
func NewMemoryStore[V any](config Config) *MemoryStore[V] {
	s := &MemoryStore[V]{}

	if config.MaxEntries > 0 {
		// lru.NewWithEvict only fails for a non-positive size
		bounded, _ := lru.NewWithEvict[string, V](config.MaxEntries, func(string, V) {
			s.counters.evictions.Add(1)
		})
		s.entries = lruEntries[V]{bounded}
	} else {
		s.entries = &mapEntries[V]{items: make(map[string]V)}
	}

	return s
}

// GetOrCompute implements Store
func (s *MemoryStore[V]) GetOrCompute(ctx context.Context, key string, compute ComputeFunc[V]) (V, bool, error) {
	var zero V
	if key == "" {
		return zero, false, ErrInvalidCacheKey
	}

	if value, ok := s.entries.Get(key); ok {
		s.counters.hits.Add(1)
		return value, true, nil
	}
	s.counters.misses.Add(1)

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		// A computation for this key may have finished between the lookup and Do
		if value, ok := s.entries.Get(key); ok {
			return value, nil
		}
		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		s.entries.Add(key, value)
		return value, nil
	})
	if err != nil {
		return zero, false, err
	}

	return result.(V), false, nil
}

// Get returns a cached value without computing it
func (s *MemoryStore[V]) Get(key string) (V, bool) {
	return s.entries.Get(key)
}

// Len returns the number of cached keys
func (s *MemoryStore[V]) Len() int {
	return s.entries.Len()
}

// Stats implements Store
func (s *MemoryStore[V]) Stats(ctx context.Context) (*Stats, error) {
	return s.counters.snapshot(int64(s.entries.Len())), nil
}

// Backend implements Store
func (s *MemoryStore[V]) Backend() string {
	return BackendMemory
}

type mapEntries[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

func (m *mapEntries[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *mapEntries[V]) Add(key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *mapEntries[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

type lruEntries[V any] struct {
	cache *lru.Cache[string, V]
}

func (l lruEntries[V]) Get(key string) (V, bool) { return l.cache.Get(key) }

func (l lruEntries[V]) Add(key string, value V) { l.cache.Add(key, value) }

func (l lruEntries[V]) Len() int { return l.cache.Len() }
