package cache

import "errors"

var (
	// ErrCacheUnavailable is returned when the backing store cannot be reached
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrInvalidCacheKey is returned for an empty key
	ErrInvalidCacheKey = errors.New("invalid cache key")
)
