package cache

import (
	"context"
	"time"
)

// Cache stores rendered responses keyed by request
type Cache interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value in the cache with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache
	Delete(ctx context.Context, key string) error

	// Close releases background resources
	Close()
}

// Stats provides statistics about cache usage
type Stats struct {
	Hits      int64
	Misses    int64
	Sets      int64
	Evictions int64
	Size      int64
}
