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

// Default ranked-list sizes when the query does not bound them.
const (
	defaultTopUsers         = 10
	defaultTopConversations = 10
)

// StatsService assembles the composite dashboard result for a tenant. On a
// cache miss it fans out to all four metric sources concurrently, joins the
// aggregates anchored on the cost breakdown, and enriches the result with
// derived metrics.
type StatsService struct {
	costs   metrics.CostSource
	perf    metrics.PerformanceSource
	usage   metrics.UsageSource
	convs   metrics.ConversationSource
	orch    *Orchestrator
	derived *DerivedEngine
	breaker *resilience.Breaker
	log     *slog.Logger
	now     func() time.Time
}

// NewStatsService creates a StatsService. breaker may be nil to call the
// sources unprotected.
func NewStatsService(
	costs metrics.CostSource,
	perf metrics.PerformanceSource,
	usage metrics.UsageSource,
	convs metrics.ConversationSource,
	orch *Orchestrator,
	derived *DerivedEngine,
	breaker *resilience.Breaker,
	log *slog.Logger,
) *StatsService {
	return &StatsService{
		costs:   costs,
		perf:    perf,
		usage:   usage,
		convs:   convs,
		orch:    orch,
		derived: derived,
		breaker: breaker,
		log:     log,
		now:     time.Now,
	}
}

// TenantStats returns the full dashboard result for the query, serving from
// cache when possible.
func (s *StatsService) TenantStats(ctx context.Context, q analytics.Query) (*analytics.TenantAIStats, error) {
	if q.TenantID == "" {
		return nil, fmt.Errorf("tenant id is required: %w", domain.ErrValidation)
	}
	now := s.now()
	r, err := analytics.ResolvePeriod(q.Period, q.Start, q.End, now)
	if err != nil {
		return nil, err
	}
	if q.Period != "" && !analytics.KnownPeriod(q.Period) {
		s.log.Warn("unknown period token, using default window",
			"tenant_id", q.TenantID, "period", q.Period, "default", analytics.DefaultPeriod)
	}

	key := CacheKey(resultTypeStats, q.TenantID, q.Period, r, q.Filters.Fingerprint())
	return GetOrCompute(ctx, s.orch, key, TTLStats, func(ctx context.Context) (*analytics.TenantAIStats, error) {
		return s.compute(ctx, q, r)
	})
}

// compute performs the concurrent fan-out and join for one cache miss. The
// four source calls are independent; the first failure cancels the rest and
// propagates.
func (s *StatsService) compute(ctx context.Context, q analytics.Query, r analytics.DateRange) (*analytics.TenantAIStats, error) {
	topUsers := q.Filters.TopUsersLimit
	if topUsers <= 0 {
		topUsers = defaultTopUsers
	}
	topConvs := q.Filters.TopConversationsLimit
	if topConvs <= 0 {
		topConvs = defaultTopConversations
	}

	started := time.Now()
	var (
		costAgg  *analytics.CostAggregate
		perfAgg  *analytics.PerformanceAggregate
		usageAgg *analytics.UsageAggregate
		convAgg  *analytics.ConversationAggregate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return callSource(gctx, s.orch, s.breaker, "cost", func(ctx context.Context) error {
			var err error
			costAgg, err = s.costs.CostAggregate(ctx, q.TenantID, r, q.Filters)
			return err
		})
	})
	g.Go(func() error {
		return callSource(gctx, s.orch, s.breaker, "performance", func(ctx context.Context) error {
			var err error
			perfAgg, err = s.perf.PerformanceAggregate(ctx, q.TenantID, r, q.Filters)
			return err
		})
	})
	g.Go(func() error {
		return callSource(gctx, s.orch, s.breaker, "usage", func(ctx context.Context) error {
			var err error
			usageAgg, err = s.usage.UsageAggregate(ctx, q.TenantID, r, topUsers)
			return err
		})
	})
	g.Go(func() error {
		return callSource(gctx, s.orch, s.breaker, "conversation", func(ctx context.Context) error {
			var err error
			convAgg, err = s.convs.ConversationAggregate(ctx, q.TenantID, r, topConvs)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.log.Debug("stats fan-out complete",
		"tenant_id", q.TenantID, "duration", time.Since(started))

	stats := &analytics.TenantAIStats{
		TenantID:           q.TenantID,
		Period:             q.Period,
		Range:              r,
		TotalCostUSD:       costAgg.TotalCostUSD,
		TotalMessages:      usageAgg.TotalMessages,
		TotalConversations: usageAgg.TotalConversations,
		TotalTokensIn:      costAgg.TotalTokensIn,
		TotalTokensOut:     costAgg.TotalTokensOut,
		ActiveUsers:        usageAgg.ActiveUsers,
		AvgResponseTimeMs:  perfAgg.AvgResponseTimeMs,
		AvgConfidence:      perfAgg.AvgConfidence,
		ProviderBreakdown:  joinProviders(costAgg.ByProvider, perfAgg.ByProvider, costAgg.TotalCostUSD, s.derived),
		ModelBreakdown:     joinModels(costAgg.ByModel, perfAgg.ByModel, costAgg.TotalCostUSD, s.derived),
		DailyTrend:         costAgg.Daily,
		TopUsers:           usageAgg.TopUsers,
		TopConversations:   convAgg.TopConversations,
		Savings:            s.derived.Savings(costAgg.TotalCostUSD),
		Projection:         s.derived.Projection(costAgg.TotalCostUSD, r),
		Benchmarks:         s.derived.Benchmarks(perfAgg.AvgResponseTimeMs, perfAgg.AvgConfidence, nil),
		GeneratedAt:        s.now().UTC(),
	}
	return stats, nil
}
