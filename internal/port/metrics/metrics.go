// Package metrics defines the port interfaces for the external metric
// sources the aggregation engine fans out to. Each source returns a raw
// aggregate for a (tenant, range) pair and is treated as a black box;
// timeouts and retries live behind these interfaces, not in the engine.
package metrics

import (
	"context"
	"time"

	"github.com/prismgate/analytics/internal/domain/analytics"
	"github.com/prismgate/analytics/internal/domain/quota"
)

// CostSource supplies cost aggregates and per-conversation cost breakdowns.
type CostSource interface {
	CostAggregate(ctx context.Context, tenantID string, r analytics.DateRange, f analytics.Filters) (*analytics.CostAggregate, error)

	// ConversationCost returns domain.ErrNotFound when the conversation does
	// not exist for the tenant.
	ConversationCost(ctx context.Context, tenantID, conversationID string) (*analytics.ConversationCost, error)
}

// PerformanceSource supplies response-time, confidence and error-rate
// aggregates.
type PerformanceSource interface {
	PerformanceAggregate(ctx context.Context, tenantID string, r analytics.DateRange, f analytics.Filters) (*analytics.PerformanceAggregate, error)
	RealTimeSnapshot(ctx context.Context, tenantID string, window time.Duration) (*analytics.RealTimePerformance, error)
}

// UsageSource supplies message/conversation/user counters, the raw quota
// usage counters, and the cross-tenant usage report.
type UsageSource interface {
	UsageAggregate(ctx context.Context, tenantID string, r analytics.DateRange, topUsers int) (*analytics.UsageAggregate, error)
	QuotaUsage(ctx context.Context, tenantID string, now time.Time) (*quota.Usage, error)
	GlobalUsage(ctx context.Context, r analytics.DateRange, topTenants int) (*analytics.GlobalUsage, error)
}

// ConversationSource supplies conversation-level analytics.
type ConversationSource interface {
	ConversationAggregate(ctx context.Context, tenantID string, r analytics.DateRange, limit int) (*analytics.ConversationAggregate, error)
}
