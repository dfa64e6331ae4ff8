// Package tiered implements a two-level result cache: an in-process L1 in
// front of a shared remote L2. Single-instance deployments run L1 only;
// the tiered form keeps instances warm from each other's computations.
package tiered

import (
	"context"
	"time"

	"github.com/prismgate/analytics/internal/port/cache"
)

// Cache combines an L1 (in-process) and L2 (remote) cache. Get checks L1
// first, then L2, backfilling L1 on an L2 hit. Set and Delete operate on
// both levels; Delete in particular must clear both so that a quota
// invalidation is not resurrected by a stale L2 entry.
type Cache struct {
	l1       cache.Cache
	l2       cache.Cache
	l1Expire time.Duration
}

// New creates a tiered cache. l1Expire bounds how long L2 backfill entries
// live in L1; it should not exceed the shortest TTL class in use, or an L1
// backfill can outlive the result's intended freshness.
func New(l1, l2 cache.Cache, l1Expire time.Duration) *Cache {
	return &Cache{l1: l1, l2: l2, l1Expire: l1Expire}
}

// Get checks L1, then L2. On an L2 hit the entry is backfilled into L1.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, found, err := c.l1.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if found {
		return val, true, nil
	}

	val, found, err = c.l2.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if found {
		_ = c.l1.Set(ctx, key, val, c.l1Expire)
		return val, true, nil
	}

	return nil, false, nil
}

// Set writes to both levels.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.l1.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.l2.Set(ctx, key, value, ttl)
}

// Delete removes the key from both levels.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.l1.Delete(ctx, key); err != nil {
		return err
	}
	return c.l2.Delete(ctx, key)
}
