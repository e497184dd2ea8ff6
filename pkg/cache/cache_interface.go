package cache

import (
	"context"
	"time"
)

// Cache defines the contract for the cache layer so the implementation
// (Redis, in-memory) can be swapped.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// Returns found=false on a cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping checks the connection.
	Ping(ctx context.Context) error
}
