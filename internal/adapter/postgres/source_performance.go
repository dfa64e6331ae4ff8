package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/prismgate/analytics/internal/domain/analytics"
)

// PerformanceAggregate computes response-time, confidence and error-rate
// aggregates for a (tenant, range) pair.
func (s *Source) PerformanceAggregate(ctx context.Context, tenantID string, r analytics.DateRange, f analytics.Filters) (*analytics.PerformanceAggregate, error) {
	where, args := requestWhere(tenantID, r, f)
	agg := &analytics.PerformanceAggregate{}

	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(response_time_ms), 0),
		        COALESCE(percentile_cont(0.95) WITHIN GROUP (ORDER BY response_time_ms), 0),
		        COALESCE(AVG(confidence), 0),
		        COALESCE(AVG(CASE WHEN success THEN 0.0 ELSE 1.0 END), 0),
		        COUNT(*)
		 FROM ai_requests WHERE `+where, args...,
	).Scan(&agg.AvgResponseTimeMs, &agg.P95ResponseTimeMs, &agg.AvgConfidence, &agg.ErrorRate, &agg.TotalRequests)
	if err != nil {
		return nil, fmt.Errorf("performance totals: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT provider, AVG(response_time_ms), COALESCE(AVG(confidence), 0),
		        AVG(CASE WHEN success THEN 0.0 ELSE 1.0 END), COUNT(*)
		 FROM ai_requests WHERE `+where+`
		 GROUP BY provider ORDER BY COUNT(*) DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("performance by provider: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p analytics.ProviderPerformance
		if err := rows.Scan(&p.Provider, &p.AvgResponseTimeMs, &p.AvgConfidence, &p.ErrorRate, &p.RequestCount); err != nil {
			return nil, fmt.Errorf("scan provider performance: %w", err)
		}
		agg.ByProvider = append(agg.ByProvider, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("performance by provider: %w", err)
	}

	rows, err = s.pool.Query(ctx,
		`SELECT provider, model, AVG(response_time_ms), COALESCE(AVG(confidence), 0),
		        AVG(CASE WHEN success THEN 0.0 ELSE 1.0 END), COUNT(*)
		 FROM ai_requests WHERE `+where+`
		 GROUP BY provider, model ORDER BY COUNT(*) DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("performance by model: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m analytics.ModelPerformance
		if err := rows.Scan(&m.Provider, &m.Model, &m.AvgResponseTimeMs, &m.AvgConfidence, &m.ErrorRate, &m.RequestCount); err != nil {
			return nil, fmt.Errorf("scan model performance: %w", err)
		}
		agg.ByModel = append(agg.ByModel, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("performance by model: %w", err)
	}

	agg.ByProvider = orEmpty(agg.ByProvider)
	agg.ByModel = orEmpty(agg.ByModel)
	return agg, nil
}

// RealTimeSnapshot computes a short-window performance snapshot ending now.
func (s *Source) RealTimeSnapshot(ctx context.Context, tenantID string, window time.Duration) (*analytics.RealTimePerformance, error) {
	now := time.Now().UTC()
	since := now.Add(-window)
	snap := &analytics.RealTimePerformance{
		TenantID:      tenantID,
		WindowMinutes: int(window.Minutes()),
		CapturedAt:    now,
	}

	var requests int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(response_time_ms), 0),
		        COALESCE(AVG(CASE WHEN success THEN 0.0 ELSE 1.0 END), 0),
		        COUNT(DISTINCT conversation_id)
		 FROM ai_requests
		 WHERE tenant_id = $1 AND created_at >= $2`,
		tenantID, since,
	).Scan(&requests, &snap.AvgResponseTimeMs, &snap.ErrorRate, &snap.ActiveConversations)
	if err != nil {
		return nil, fmt.Errorf("realtime snapshot: %w", err)
	}

	if mins := window.Minutes(); mins > 0 {
		snap.RequestsPerMinute = float64(requests) / mins
	}
	return snap, nil
}
