package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prismgate/analytics/internal/domain"
	"github.com/prismgate/analytics/internal/domain/quota"
)

// QuotaStore implements quotastore.Store over the tenant_quota_configs
// table.
type QuotaStore struct {
	pool *pgxpool.Pool
}

// NewQuotaStore creates a QuotaStore backed by the given connection pool.
func NewQuotaStore(pool *pgxpool.Pool) *QuotaStore {
	return &QuotaStore{pool: pool}
}

// GetConfig returns the tenant's stored quota configuration, or
// domain.ErrNotFound when none exists.
func (s *QuotaStore) GetConfig(ctx context.Context, tenantID string) (*quota.Config, error) {
	var cfg quota.Config
	err := s.pool.QueryRow(ctx,
		`SELECT tenant_id, daily_cost_limit_usd, monthly_cost_limit,
		        daily_token_limit, daily_message_limit,
		        warning_threshold, critical_threshold, updated_at
		 FROM tenant_quota_configs WHERE tenant_id = $1`, tenantID,
	).Scan(&cfg.TenantID, &cfg.DailyCostLimitUSD, &cfg.MonthlyCostLimit,
		&cfg.DailyTokenLimit, &cfg.DailyMessageLimit,
		&cfg.WarningThreshold, &cfg.CriticalThreshold, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quota config %s: %w", tenantID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get quota config %s: %w", tenantID, err)
	}
	return &cfg, nil
}

// UpsertConfig inserts or replaces the tenant's quota configuration.
func (s *QuotaStore) UpsertConfig(ctx context.Context, cfg *quota.Config) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tenant_quota_configs
		   (tenant_id, daily_cost_limit_usd, monthly_cost_limit,
		    daily_token_limit, daily_message_limit,
		    warning_threshold, critical_threshold, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (tenant_id) DO UPDATE SET
		   daily_cost_limit_usd = EXCLUDED.daily_cost_limit_usd,
		   monthly_cost_limit   = EXCLUDED.monthly_cost_limit,
		   daily_token_limit    = EXCLUDED.daily_token_limit,
		   daily_message_limit  = EXCLUDED.daily_message_limit,
		   warning_threshold    = EXCLUDED.warning_threshold,
		   critical_threshold   = EXCLUDED.critical_threshold,
		   updated_at           = EXCLUDED.updated_at`,
		cfg.TenantID, cfg.DailyCostLimitUSD, cfg.MonthlyCostLimit,
		cfg.DailyTokenLimit, cfg.DailyMessageLimit,
		cfg.WarningThreshold, cfg.CriticalThreshold, cfg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert quota config %s: %w", cfg.TenantID, err)
	}
	return nil
}
