package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is absent or past its TTL.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the read-through surface the dashboard snapshots go through.
// Both backends treat a miss and an expired entry the same way.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context, pattern string) error
}

// CacheKey generates a cache key from hierarchical parts.
func CacheKey(parts ...string) string {
	key := "hospital"
	for _, p := range parts {
		if p == "" {
			continue
		}
		key += ":" + p
	}
	return key
}
