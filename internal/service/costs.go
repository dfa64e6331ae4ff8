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

// CostService serves the cost-focused analytics surface.
type CostService struct {
	costs   metrics.CostSource
	perf    metrics.PerformanceSource
	orch    *Orchestrator
	derived *DerivedEngine
	breaker *resilience.Breaker
	log     *slog.Logger
	now     func() time.Time
}

// NewCostService creates a CostService.
func NewCostService(
	costs metrics.CostSource,
	perf metrics.PerformanceSource,
	orch *Orchestrator,
	derived *DerivedEngine,
	breaker *resilience.Breaker,
	log *slog.Logger,
) *CostService {
	return &CostService{
		costs:   costs,
		perf:    perf,
		orch:    orch,
		derived: derived,
		breaker: breaker,
		log:     log,
		now:     time.Now,
	}
}

// Analytics returns cost analytics for the query, serving from cache when
// possible. Cost results use the dashboard TTL class.
func (s *CostService) Analytics(ctx context.Context, q analytics.Query) (*analytics.CostAnalytics, error) {
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

	key := CacheKey(resultTypeCosts, q.TenantID, q.Period, r, q.Filters.Fingerprint())
	return GetOrCompute(ctx, s.orch, key, TTLDashboard, func(ctx context.Context) (*analytics.CostAnalytics, error) {
		return s.compute(ctx, q, r)
	})
}

func (s *CostService) compute(ctx context.Context, q analytics.Query, r analytics.DateRange) (*analytics.CostAnalytics, error) {
	var (
		costAgg *analytics.CostAggregate
		perfAgg *analytics.PerformanceAggregate
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
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &analytics.CostAnalytics{
		TenantID:       q.TenantID,
		Period:         q.Period,
		Range:          r,
		TotalCostUSD:   costAgg.TotalCostUSD,
		TotalTokensIn:  costAgg.TotalTokensIn,
		TotalTokensOut: costAgg.TotalTokensOut,
		ByProvider:     joinProviders(costAgg.ByProvider, perfAgg.ByProvider, costAgg.TotalCostUSD, s.derived),
		ByModel:        joinModels(costAgg.ByModel, perfAgg.ByModel, costAgg.TotalCostUSD, s.derived),
		DailyTrend:     costAgg.Daily,
		Savings:        s.derived.Savings(costAgg.TotalCostUSD),
		Projection:     s.derived.Projection(costAgg.TotalCostUSD, r),
		GeneratedAt:    s.now().UTC(),
	}, nil
}

// ConversationCost returns the per-conversation cost breakdown. NotFound
// propagates uncached; conversation results are never written to the cache.
func (s *CostService) ConversationCost(ctx context.Context, tenantID, conversationID string) (*analytics.ConversationCost, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required: %w", domain.ErrValidation)
	}
	if conversationID == "" {
		return nil, fmt.Errorf("conversation id is required: %w", domain.ErrValidation)
	}
	cc, err := s.costs.ConversationCost(ctx, tenantID, conversationID)
	if err != nil {
		return nil, fmt.Errorf("conversation cost %s: %w", conversationID, err)
	}
	return cc, nil
}
