package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/prismgate/analytics/internal/domain/analytics"
	"github.com/prismgate/analytics/internal/port/metrics"
	"github.com/prismgate/analytics/internal/resilience"
)

// defaultTopTenants bounds the cross-tenant ranked list.
const defaultTopTenants = 20

// UsageService serves the cross-tenant usage report. The report is not
// tenant-scoped, so the admin guard in front of its endpoint is the only
// thing keeping it out of tenant hands; the service itself does no
// authorization.
type UsageService struct {
	usage   metrics.UsageSource
	orch    *Orchestrator
	breaker *resilience.Breaker
	log     *slog.Logger
	now     func() time.Time
}

// NewUsageService creates a UsageService.
func NewUsageService(usage metrics.UsageSource, orch *Orchestrator, breaker *resilience.Breaker, log *slog.Logger) *UsageService {
	return &UsageService{
		usage:   usage,
		orch:    orch,
		breaker: breaker,
		log:     log,
		now:     time.Now,
	}
}

// GlobalUsage returns the cross-tenant usage report for the period, served
// from cache under the stats TTL class. The cache key uses "_all" in the
// tenant slot so it cannot collide with a real tenant's entries.
func (s *UsageService) GlobalUsage(ctx context.Context, period string, start, end *time.Time) (*analytics.GlobalUsage, error) {
	now := s.now()
	r, err := analytics.ResolvePeriod(period, start, end, now)
	if err != nil {
		return nil, err
	}
	if period != "" && !analytics.KnownPeriod(period) {
		s.log.Warn("unknown period token, using default window",
			"period", period, "default", analytics.DefaultPeriod)
	}

	key := CacheKey(resultTypeGlobalUsage, "_all", period, r, "")
	return GetOrCompute(ctx, s.orch, key, TTLStats, func(ctx context.Context) (*analytics.GlobalUsage, error) {
		var out *analytics.GlobalUsage
		if err := callSource(ctx, s.orch, s.breaker, "usage", func(ctx context.Context) error {
			var err error
			out, err = s.usage.GlobalUsage(ctx, r, defaultTopTenants)
			return err
		}); err != nil {
			return nil, err
		}
		out.Period = period
		out.Range = r
		out.GeneratedAt = s.now().UTC()
		return out, nil
	})
}
