// Package cache defines the port interface for the analytics result cache.
package cache

import (
	"context"
	"time"
)

// Cache is the port interface for key-value caching with per-entry expiry.
// Implementations store entries whole; the engine never writes a partial
// value. Get returns found=false for absent or expired keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
