package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/prismgate/analytics/internal/domain"
	"github.com/prismgate/analytics/internal/domain/analytics"
)

// CostAggregate computes the cost totals and the provider, model and daily
// breakdowns for a (tenant, range) pair.
func (s *Source) CostAggregate(ctx context.Context, tenantID string, r analytics.DateRange, f analytics.Filters) (*analytics.CostAggregate, error) {
	where, args := requestWhere(tenantID, r, f)
	agg := &analytics.CostAggregate{}

	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(cost_usd), 0), COALESCE(SUM(tokens_in), 0), COALESCE(SUM(tokens_out), 0)
		 FROM ai_requests WHERE `+where, args...,
	).Scan(&agg.TotalCostUSD, &agg.TotalTokensIn, &agg.TotalTokensOut)
	if err != nil {
		return nil, fmt.Errorf("cost totals: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT provider, SUM(cost_usd), COUNT(*), SUM(tokens_in), SUM(tokens_out)
		 FROM ai_requests WHERE `+where+`
		 GROUP BY provider ORDER BY SUM(cost_usd) DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("cost by provider: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p analytics.ProviderCost
		if err := rows.Scan(&p.Provider, &p.TotalCostUSD, &p.MessageCount, &p.TokensIn, &p.TokensOut); err != nil {
			return nil, fmt.Errorf("scan provider cost: %w", err)
		}
		agg.ByProvider = append(agg.ByProvider, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cost by provider: %w", err)
	}

	rows, err = s.pool.Query(ctx,
		`SELECT provider, model, SUM(cost_usd), COUNT(*), SUM(tokens_in), SUM(tokens_out)
		 FROM ai_requests WHERE `+where+`
		 GROUP BY provider, model ORDER BY SUM(cost_usd) DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("cost by model: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m analytics.ModelCost
		if err := rows.Scan(&m.Provider, &m.Model, &m.TotalCostUSD, &m.MessageCount, &m.TokensIn, &m.TokensOut); err != nil {
			return nil, fmt.Errorf("scan model cost: %w", err)
		}
		agg.ByModel = append(agg.ByModel, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cost by model: %w", err)
	}

	rows, err = s.pool.Query(ctx,
		`SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD'),
		        SUM(cost_usd), COUNT(*), SUM(tokens_in), SUM(tokens_out)
		 FROM ai_requests WHERE `+where+`
		 GROUP BY 1 ORDER BY 1`, args...)
	if err != nil {
		return nil, fmt.Errorf("daily cost: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d analytics.DailyCost
		if err := rows.Scan(&d.Date, &d.CostUSD, &d.MessageCount, &d.TokensIn, &d.TokensOut); err != nil {
			return nil, fmt.Errorf("scan daily cost: %w", err)
		}
		agg.Daily = append(agg.Daily, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily cost: %w", err)
	}

	agg.ByProvider = orEmpty(agg.ByProvider)
	agg.ByModel = orEmpty(agg.ByModel)
	agg.Daily = orEmpty(agg.Daily)
	return agg, nil
}

// ConversationCost computes the cost breakdown for one conversation.
// Returns domain.ErrNotFound when the conversation does not exist for the
// tenant.
func (s *Source) ConversationCost(ctx context.Context, tenantID, conversationID string) (*analytics.ConversationCost, error) {
	cc := &analytics.ConversationCost{ConversationID: conversationID, TenantID: tenantID}

	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM conversations WHERE id = $1 AND tenant_id = $2)`,
		conversationID, tenantID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("conversation lookup: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
	}

	err = s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(cost_usd), 0), COUNT(*)
		 FROM ai_requests WHERE conversation_id = $1 AND tenant_id = $2`,
		conversationID, tenantID,
	).Scan(&cc.TotalCostUSD, &cc.MessageCount)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("conversation totals: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT provider, model, SUM(cost_usd), COUNT(*), SUM(tokens_in), SUM(tokens_out)
		 FROM ai_requests WHERE conversation_id = $1 AND tenant_id = $2
		 GROUP BY provider, model ORDER BY SUM(cost_usd) DESC`,
		conversationID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("conversation by model: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line analytics.ConversationCostLine
		if err := rows.Scan(&line.Provider, &line.Model, &line.CostUSD, &line.MessageCount, &line.TokensIn, &line.TokensOut); err != nil {
			return nil, fmt.Errorf("scan conversation line: %w", err)
		}
		cc.ByModel = append(cc.ByModel, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conversation by model: %w", err)
	}

	cc.ByModel = orEmpty(cc.ByModel)
	return cc, nil
}
