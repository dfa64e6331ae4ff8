// Package service implements the analytics aggregation engine: the
// cache-aside orchestrator, the join and derived-metrics engines, and the
// application services behind the HTTP surface.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	otelx "github.com/prismgate/analytics/internal/adapter/otel"
	"github.com/prismgate/analytics/internal/config"
	"github.com/prismgate/analytics/internal/port/cache"
)

// TTLClass names a category of cached results. Each class maps to an expiry
// from the injected config.TTL.
type TTLClass string

const (
	TTLDashboard TTLClass = "dashboard"
	TTLStats     TTLClass = "stats"
	TTLExports   TTLClass = "exports"
	TTLQuotas    TTLClass = "quotas"
)

// cacheSchemaVersion guards cached payloads against shape changes. A cached
// entry with a different version is treated as a miss, never deserialized.
const cacheSchemaVersion = 1

// cacheEnvelope is the on-store representation of a cached result.
type cacheEnvelope struct {
	SchemaVersion int             `json:"schema_version"`
	WrittenAt     time.Time       `json:"written_at"`
	Payload       json.RawMessage `json:"payload"`
}

// Orchestrator is the cache-aside layer in front of the aggregation
// pipeline. Cache store failures are tolerated in both directions: a failed
// read falls through to computation, a failed write is logged and the
// freshly computed result is still returned.
type Orchestrator struct {
	store cache.Cache
	ttl   config.TTL
	log   *slog.Logger
	tel   *otelx.Metrics // optional
}

// NewOrchestrator creates an Orchestrator over the given cache store.
// tel may be nil when telemetry is disabled.
func NewOrchestrator(store cache.Cache, ttl config.TTL, log *slog.Logger, tel *otelx.Metrics) *Orchestrator {
	return &Orchestrator{store: store, ttl: ttl, log: log, tel: tel}
}

// TTLFor returns the configured expiry for a class.
func (o *Orchestrator) TTLFor(class TTLClass) time.Duration {
	switch class {
	case TTLDashboard:
		return o.ttl.Dashboard
	case TTLStats:
		return o.ttl.Stats
	case TTLExports:
		return o.ttl.Exports
	case TTLQuotas:
		return o.ttl.Quotas
	default:
		return o.ttl.Stats
	}
}

// Invalidate removes a key from the store, bypassing TTL. Store failures
// are logged and swallowed.
func (o *Orchestrator) Invalidate(ctx context.Context, key string) {
	if err := o.store.Delete(ctx, key); err != nil {
		o.log.Warn("cache delete failed", "key", key, "error", err)
	}
}

// GetOrCompute implements the cache-aside read path for one key. On a hit
// the cached value is returned without invoking compute; on a miss (or any
// store/deserialization problem) compute runs and its result is written
// under the class TTL before being returned. compute errors propagate and
// nothing is cached.
//
// Two concurrent misses for the same key both compute and both write; last
// write wins. Results are pure functions of the same inputs, so this is an
// accepted inefficiency rather than a correctness problem.
func GetOrCompute[T any](ctx context.Context, o *Orchestrator, key string, class TTLClass, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	data, found, err := o.store.Get(ctx, key)
	if err != nil {
		// Degrade to always-compute when the store is unavailable.
		o.log.Warn("cache read failed, computing", "key", key, "error", err)
	} else if found {
		var env cacheEnvelope
		if uerr := json.Unmarshal(data, &env); uerr == nil && env.SchemaVersion == cacheSchemaVersion {
			var v T
			if uerr := json.Unmarshal(env.Payload, &v); uerr == nil {
				o.countHit(ctx)
				return v, nil
			}
		}
		// Stale schema or corrupt entry counts as a miss.
		o.log.Debug("discarding stale cache entry", "key", key)
	}
	o.countMiss(ctx)

	cctx, span := otelx.StartComputeSpan(ctx, key)
	started := time.Now()
	v, err := compute(cctx)
	if o.tel != nil {
		o.tel.ComputeDuration.Record(ctx, time.Since(started).Seconds())
	}
	if err != nil {
		span.RecordError(err)
		span.End()
		return zero, err
	}
	span.End()

	payload, err := json.Marshal(v)
	if err != nil {
		return zero, fmt.Errorf("marshal cached result: %w", err)
	}
	raw, err := json.Marshal(cacheEnvelope{
		SchemaVersion: cacheSchemaVersion,
		WrittenAt:     time.Now().UTC(),
		Payload:       payload,
	})
	if err != nil {
		return zero, fmt.Errorf("marshal cache envelope: %w", err)
	}

	if serr := o.store.Set(ctx, key, raw, o.TTLFor(class)); serr != nil {
		o.log.Warn("cache write failed", "key", key, "error", serr)
	}
	return v, nil
}

func (o *Orchestrator) countHit(ctx context.Context) {
	if o.tel != nil {
		o.tel.CacheHits.Add(ctx, 1)
	}
}

func (o *Orchestrator) countMiss(ctx context.Context) {
	if o.tel != nil {
		o.tel.CacheMisses.Add(ctx, 1)
	}
}
