package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/prismgate/analytics/internal/domain"
	"github.com/prismgate/analytics/internal/domain/analytics"
	"github.com/prismgate/analytics/internal/port/metrics"
	"github.com/prismgate/analytics/internal/resilience"
)

// realtimeWindow is the observation window for realtime snapshots.
const realtimeWindow = 5 * time.Minute

// Broadcaster pushes realtime snapshots to connected dashboard clients.
type Broadcaster interface {
	BroadcastRealTime(ctx context.Context, snap *analytics.RealTimePerformance)
}

// PerformanceService serves the performance analytics surface. The periodic
// metrics fan out to the current and previous windows concurrently so that
// benchmarks can include a previous-period comparison.
type PerformanceService struct {
	perf      metrics.PerformanceSource
	orch      *Orchestrator
	derived   *DerivedEngine
	breaker   *resilience.Breaker
	broadcast Broadcaster
	log       *slog.Logger
	now       func() time.Time
}

// NewPerformanceService creates a PerformanceService. broadcast may be nil
// when no realtime push channel is wired.
func NewPerformanceService(
	perf metrics.PerformanceSource,
	orch *Orchestrator,
	derived *DerivedEngine,
	breaker *resilience.Breaker,
	broadcast Broadcaster,
	log *slog.Logger,
) *PerformanceService {
	return &PerformanceService{
		perf:      perf,
		orch:      orch,
		derived:   derived,
		breaker:   breaker,
		broadcast: broadcast,
		log:       log,
		now:       time.Now,
	}
}

// Metrics returns performance metrics for the query, serving from cache
// when possible.
func (s *PerformanceService) Metrics(ctx context.Context, q analytics.Query) (*analytics.PerformanceMetrics, error) {
	if q.TenantID == "" {
		return nil, fmt.Errorf("tenant id is required: %w", domain.ErrValidation)
	}
	r, err := analytics.ResolvePeriod(q.Period, q.Start, q.End, s.now())
	if err != nil {
		return nil, err
	}
	if q.Period != "" && !analytics.KnownPeriod(q.Period) {
		s.log.Warn("unknown period token, using default window",
			"tenant_id", q.TenantID, "period", q.Period, "default", analytics.DefaultPeriod)
	}

	key := CacheKey(resultTypePerformance, q.TenantID, q.Period, r, q.Filters.Fingerprint())
	return GetOrCompute(ctx, s.orch, key, TTLDashboard, func(ctx context.Context) (*analytics.PerformanceMetrics, error) {
		return s.compute(ctx, q, r)
	})
}

func (s *PerformanceService) compute(ctx context.Context, q analytics.Query, r analytics.DateRange) (*analytics.PerformanceMetrics, error) {
	var (
		current  *analytics.PerformanceAggregate
		previous *analytics.PerformanceAggregate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return callSource(gctx, s.orch, s.breaker, "performance", func(ctx context.Context) error {
			var err error
			current, err = s.perf.PerformanceAggregate(ctx, q.TenantID, r, q.Filters)
			return err
		})
	})
	g.Go(func() error {
		return callSource(gctx, s.orch, s.breaker, "performance", func(ctx context.Context) error {
			var err error
			previous, err = s.perf.PerformanceAggregate(ctx, q.TenantID, previousRange(r), q.Filters)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byProvider := make([]analytics.ProviderReliability, 0, len(current.ByProvider))
	for _, p := range current.ByProvider {
		byProvider = append(byProvider, analytics.ProviderReliability{
			ProviderPerformance: p,
			Reliability:         s.derived.Score(p.AvgResponseTimeMs, p.ErrorRate),
		})
	}

	var prev *PreviousPeriod
	if previous.TotalRequests > 0 {
		prev = &PreviousPeriod{
			AvgResponseTimeMs: previous.AvgResponseTimeMs,
			AvgConfidence:     previous.AvgConfidence,
		}
	}

	return &analytics.PerformanceMetrics{
		TenantID:          q.TenantID,
		Period:            q.Period,
		Range:             r,
		AvgResponseTimeMs: current.AvgResponseTimeMs,
		P95ResponseTimeMs: current.P95ResponseTimeMs,
		AvgConfidence:     current.AvgConfidence,
		ErrorRate:         current.ErrorRate,
		TotalRequests:     current.TotalRequests,
		ByProvider:        byProvider,
		ByModel:           current.ByModel,
		Benchmarks:        s.derived.Benchmarks(current.AvgResponseTimeMs, current.AvgConfidence, prev),
		GeneratedAt:       s.now().UTC(),
	}, nil
}

// RealTime returns a short-window snapshot, bypassing the cache, and pushes
// it to any connected realtime clients.
func (s *PerformanceService) RealTime(ctx context.Context, tenantID string) (*analytics.RealTimePerformance, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required: %w", domain.ErrValidation)
	}
	var snap *analytics.RealTimePerformance
	err := callSource(ctx, s.orch, s.breaker, "performance", func(ctx context.Context) error {
		var err error
		snap, err = s.perf.RealTimeSnapshot(ctx, tenantID, realtimeWindow)
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.broadcast != nil {
		s.broadcast.BroadcastRealTime(ctx, snap)
	}
	return snap, nil
}
