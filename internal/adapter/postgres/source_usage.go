package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/prismgate/analytics/internal/domain/analytics"
	"github.com/prismgate/analytics/internal/domain/quota"
)

// UsageAggregate computes message, conversation and user counters for a
// (tenant, range) pair, with the top users ranked by message count.
func (s *Source) UsageAggregate(ctx context.Context, tenantID string, r analytics.DateRange, topUsers int) (*analytics.UsageAggregate, error) {
	agg := &analytics.UsageAggregate{}

	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT conversation_id), COUNT(DISTINCT user_id)
		 FROM ai_requests
		 WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3`,
		tenantID, r.Start, r.End,
	).Scan(&agg.TotalMessages, &agg.TotalConversations, &agg.ActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("usage totals: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT user_id, COUNT(*), COALESCE(SUM(cost_usd), 0)
		 FROM ai_requests
		 WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
		 GROUP BY user_id ORDER BY COUNT(*) DESC LIMIT $4`,
		tenantID, r.Start, r.End, topUsers)
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var u analytics.UserUsage
		if err := rows.Scan(&u.UserID, &u.MessageCount, &u.CostUSD); err != nil {
			return nil, fmt.Errorf("scan user usage: %w", err)
		}
		agg.TopUsers = append(agg.TopUsers, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}

	agg.TopUsers = orEmpty(agg.TopUsers)
	return agg, nil
}

// QuotaUsage computes the raw quota counters: spend and traffic since local
// midnight, and spend since the first of the month.
func (s *Source) QuotaUsage(ctx context.Context, tenantID string, now time.Time) (*quota.Usage, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	u := &quota.Usage{}

	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(cost_usd), 0), COALESCE(SUM(tokens_in + tokens_out), 0), COUNT(*)
		 FROM ai_requests WHERE tenant_id = $1 AND created_at >= $2`,
		tenantID, dayStart,
	).Scan(&u.DailyCostUSD, &u.DailyTokens, &u.DailyMessages)
	if err != nil {
		return nil, fmt.Errorf("daily quota usage: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(cost_usd), 0)
		 FROM ai_requests WHERE tenant_id = $1 AND created_at >= $2`,
		tenantID, monthStart,
	).Scan(&u.MonthlyCostUSD)
	if err != nil {
		return nil, fmt.Errorf("monthly quota usage: %w", err)
	}

	return u, nil
}

// GlobalUsage computes the cross-tenant usage report for a range, with the
// top tenants ranked by message count.
func (s *Source) GlobalUsage(ctx context.Context, r analytics.DateRange, topTenants int) (*analytics.GlobalUsage, error) {
	g := &analytics.GlobalUsage{}

	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT tenant_id), COUNT(*), COALESCE(SUM(cost_usd), 0)
		 FROM ai_requests WHERE created_at >= $1 AND created_at < $2`,
		r.Start, r.End,
	).Scan(&g.TenantCount, &g.TotalMessages, &g.TotalCostUSD)
	if err != nil {
		return nil, fmt.Errorf("global totals: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT tenant_id, COUNT(*), COALESCE(SUM(cost_usd), 0), COUNT(DISTINCT user_id)
		 FROM ai_requests WHERE created_at >= $1 AND created_at < $2
		 GROUP BY tenant_id ORDER BY COUNT(*) DESC LIMIT $3`,
		r.Start, r.End, topTenants)
	if err != nil {
		return nil, fmt.Errorf("top tenants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t analytics.TenantUsage
		if err := rows.Scan(&t.TenantID, &t.TotalMessages, &t.TotalCostUSD, &t.ActiveUsers); err != nil {
			return nil, fmt.Errorf("scan tenant usage: %w", err)
		}
		g.TopTenants = append(g.TopTenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top tenants: %w", err)
	}

	g.TopTenants = orEmpty(g.TopTenants)
	return g, nil
}
