package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prismgate/analytics/internal/config"
	"github.com/prismgate/analytics/internal/domain"
	"github.com/prismgate/analytics/internal/domain/quota"
	"github.com/prismgate/analytics/internal/port/bus"
	"github.com/prismgate/analytics/internal/port/metrics"
	"github.com/prismgate/analytics/internal/port/quotastore"
	"github.com/prismgate/analytics/internal/resilience"
)

// QuotaNotifier pushes quota change events to connected dashboard clients.
type QuotaNotifier interface {
	BroadcastQuotaChanged(ctx context.Context, tenantID string)
}

// QuotaService maps raw usage counters against per-tenant limits into
// threshold bands. Tenants without stored configuration get the configured
// defaults. A configuration update invalidates the tenant's cached quota
// entry immediately, locally and across instances via the bus, and notifies
// connected clients.
type QuotaService struct {
	store    quotastore.Store
	usage    metrics.UsageSource
	orch     *Orchestrator
	bus      bus.Bus
	breaker  *resilience.Breaker
	notify   QuotaNotifier
	defaults config.Quota
	log      *slog.Logger
	now      func() time.Time
}

// NewQuotaService creates a QuotaService. b may be nil when running a
// single instance without the invalidation bus; notify may be nil when no
// websocket hub is mounted.
func NewQuotaService(
	store quotastore.Store,
	usage metrics.UsageSource,
	orch *Orchestrator,
	b bus.Bus,
	breaker *resilience.Breaker,
	notify QuotaNotifier,
	defaults config.Quota,
	log *slog.Logger,
) *QuotaService {
	return &QuotaService{
		store:    store,
		usage:    usage,
		orch:     orch,
		bus:      b,
		breaker:  breaker,
		notify:   notify,
		defaults: defaults,
		log:      log,
		now:      time.Now,
	}
}

// Status returns the tenant's quota bands, serving from cache under the
// quotas TTL class.
func (s *QuotaService) Status(ctx context.Context, tenantID string) (*quota.TenantStatus, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required: %w", domain.ErrValidation)
	}
	key := QuotaCacheKey(tenantID)
	return GetOrCompute(ctx, s.orch, key, TTLQuotas, func(ctx context.Context) (*quota.TenantStatus, error) {
		return s.compute(ctx, tenantID)
	})
}

func (s *QuotaService) compute(ctx context.Context, tenantID string) (*quota.TenantStatus, error) {
	cfg, err := s.config(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var u *quota.Usage
	if err := callSource(ctx, s.orch, s.breaker, "usage", func(ctx context.Context) error {
		var err error
		u, err = s.usage.QuotaUsage(ctx, tenantID, now)
		return err
	}); err != nil {
		return nil, err
	}

	return &quota.TenantStatus{
		TenantID:    tenantID,
		Bands:       s.bands(cfg, u, now),
		GeneratedAt: now.UTC(),
	}, nil
}

// bands assembles the configured quota dimensions. A zero limit disables
// its dimension.
func (s *QuotaService) bands(cfg *quota.Config, u *quota.Usage, now time.Time) []quota.Band {
	daily := quota.NextDailyReset(now)
	monthly := quota.NextMonthlyReset(now)

	bands := make([]quota.Band, 0, 4)
	if cfg.DailyCostLimitUSD > 0 {
		bands = append(bands, s.band(quota.DimensionDailyCost, cfg.DailyCostLimitUSD, u.DailyCostUSD, daily, cfg))
	}
	if cfg.MonthlyCostLimit > 0 {
		bands = append(bands, s.band(quota.DimensionMonthlyCost, cfg.MonthlyCostLimit, u.MonthlyCostUSD, monthly, cfg))
	}
	if cfg.DailyTokenLimit > 0 {
		bands = append(bands, s.band(quota.DimensionDailyTokens, float64(cfg.DailyTokenLimit), float64(u.DailyTokens), daily, cfg))
	}
	if cfg.DailyMessageLimit > 0 {
		bands = append(bands, s.band(quota.DimensionDailyMessages, float64(cfg.DailyMessageLimit), float64(u.DailyMessages), daily, cfg))
	}
	return bands
}

func (s *QuotaService) band(dim quota.Dimension, limit, used float64, resetAt time.Time, cfg *quota.Config) quota.Band {
	pct := used / limit * 100
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return quota.Band{
		Dimension:    dim,
		Limit:        limit,
		Used:         used,
		Remaining:    remaining,
		UsagePercent: pct,
		ResetAt:      resetAt,
		Status:       quota.Classify(pct, cfg.WarningThreshold, cfg.CriticalThreshold),
	}
}

// config returns the tenant's stored configuration, or the defaults when
// none is stored.
func (s *QuotaService) config(ctx context.Context, tenantID string) (*quota.Config, error) {
	cfg, err := s.store.GetConfig(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.defaultConfig(tenantID), nil
		}
		return nil, fmt.Errorf("load quota config: %w", err)
	}
	return cfg, nil
}

func (s *QuotaService) defaultConfig(tenantID string) *quota.Config {
	return &quota.Config{
		TenantID:          tenantID,
		DailyCostLimitUSD: s.defaults.DailyCostLimitUSD,
		MonthlyCostLimit:  s.defaults.MonthlyCostLimit,
		DailyTokenLimit:   s.defaults.DailyTokenLimit,
		DailyMessageLimit: s.defaults.DailyMessageLimit,
		WarningThreshold:  s.defaults.WarningThreshold,
		CriticalThreshold: s.defaults.CriticalThreshold,
	}
}

// UpdateConfig persists a tenant's quota configuration and invalidates its
// cached quota entry, bypassing TTL. The invalidation is also published on
// the bus so other instances drop their entries; a bus failure is logged,
// not propagated.
func (s *QuotaService) UpdateConfig(ctx context.Context, cfg *quota.Config) error {
	if cfg.TenantID == "" {
		return fmt.Errorf("tenant id is required: %w", domain.ErrValidation)
	}
	if cfg.WarningThreshold <= 0 || cfg.WarningThreshold >= cfg.CriticalThreshold {
		return fmt.Errorf("warning threshold must be positive and below critical: %w", domain.ErrValidation)
	}
	if cfg.CriticalThreshold > 100 {
		return fmt.Errorf("critical threshold must be <= 100: %w", domain.ErrValidation)
	}

	cfg.UpdatedAt = s.now().UTC()
	if err := s.store.UpsertConfig(ctx, cfg); err != nil {
		return fmt.Errorf("store quota config: %w", err)
	}

	s.orch.Invalidate(ctx, QuotaCacheKey(cfg.TenantID))

	if s.bus != nil {
		payload, _ := json.Marshal(bus.InvalidateQuotaPayload{TenantID: cfg.TenantID})
		if err := s.bus.Publish(ctx, bus.SubjectInvalidateQuota, payload); err != nil {
			s.log.Warn("quota invalidation publish failed", "tenant_id", cfg.TenantID, "error", err)
		}
	}
	if s.notify != nil {
		s.notify.BroadcastQuotaChanged(ctx, cfg.TenantID)
	}
	return nil
}

// Simulate classifies a hypothetical usage snapshot against the tenant's
// configuration without touching the cache or any source. Used by the quota
// test endpoint.
func (s *QuotaService) Simulate(ctx context.Context, tenantID string, u quota.Usage) (*quota.TenantStatus, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required: %w", domain.ErrValidation)
	}
	cfg, err := s.config(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &quota.TenantStatus{
		TenantID:    tenantID,
		Bands:       s.bands(cfg, &u, now),
		GeneratedAt: now.UTC(),
	}, nil
}

// HandleInvalidation is the bus subscriber for quota invalidation events
// published by other instances.
func (s *QuotaService) HandleInvalidation(ctx context.Context, _ string, data []byte) error {
	var p bus.InvalidateQuotaPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode invalidation payload: %w", err)
	}
	if p.TenantID == "" {
		return errors.New("invalidation payload missing tenant id")
	}
	s.orch.Invalidate(ctx, QuotaCacheKey(p.TenantID))
	s.log.Debug("quota cache invalidated", "tenant_id", p.TenantID)
	return nil
}
