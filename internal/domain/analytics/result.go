package analytics

import "time"

// TenantAIStats is the full dashboard response for one tenant and period.
// Created fresh per cache miss and immutable once cached.
type TenantAIStats struct {
	TenantID           string              `json:"tenant_id"`
	Period             string              `json:"period"`
	Range              DateRange           `json:"range"`
	TotalCostUSD       float64             `json:"total_cost_usd"`
	TotalMessages      int64               `json:"total_messages"`
	TotalConversations int64               `json:"total_conversations"`
	TotalTokensIn      int64               `json:"total_tokens_in"`
	TotalTokensOut     int64               `json:"total_tokens_out"`
	ActiveUsers        int64               `json:"active_users"`
	AvgResponseTimeMs  float64             `json:"avg_response_time_ms"`
	AvgConfidence      float64             `json:"avg_confidence"`
	ProviderBreakdown  []BreakdownRow      `json:"provider_breakdown"`
	ModelBreakdown     []BreakdownRow      `json:"model_breakdown"`
	DailyTrend         []DailyCost         `json:"daily_trend"`
	TopUsers           []UserUsage         `json:"top_users"`
	TopConversations   []ConversationUsage `json:"top_conversations"`
	Savings            Savings             `json:"savings"`
	Projection         Projection          `json:"projection"`
	Benchmarks         []Benchmark         `json:"benchmarks"`
	GeneratedAt        time.Time           `json:"generated_at"`
}

// CostAnalytics is the cost-focused response for one tenant and period.
type CostAnalytics struct {
	TenantID       string         `json:"tenant_id"`
	Period         string         `json:"period"`
	Range          DateRange      `json:"range"`
	TotalCostUSD   float64        `json:"total_cost_usd"`
	TotalTokensIn  int64          `json:"total_tokens_in"`
	TotalTokensOut int64          `json:"total_tokens_out"`
	ByProvider     []BreakdownRow `json:"by_provider"`
	ByModel        []BreakdownRow `json:"by_model"`
	DailyTrend     []DailyCost    `json:"daily_trend"`
	Savings        Savings        `json:"savings"`
	Projection     Projection     `json:"projection"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// ConversationCostLine is one model's share of a conversation's cost.
type ConversationCostLine struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	CostUSD      float64 `json:"cost_usd"`
	MessageCount int64   `json:"message_count"`
	TokensIn     int64   `json:"tokens_in"`
	TokensOut    int64   `json:"tokens_out"`
}

// ConversationCost is the per-conversation cost breakdown.
type ConversationCost struct {
	ConversationID string                 `json:"conversation_id"`
	TenantID       string                 `json:"tenant_id"`
	TotalCostUSD   float64                `json:"total_cost_usd"`
	MessageCount   int64                  `json:"message_count"`
	ByModel        []ConversationCostLine `json:"by_model"`
}

// PerformanceMetrics is the performance-focused response for one tenant and
// period, enriched with reliability scores and benchmarks.
type PerformanceMetrics struct {
	TenantID          string                `json:"tenant_id"`
	Period            string                `json:"period"`
	Range             DateRange             `json:"range"`
	AvgResponseTimeMs float64               `json:"avg_response_time_ms"`
	P95ResponseTimeMs float64               `json:"p95_response_time_ms"`
	AvgConfidence     float64               `json:"avg_confidence"`
	ErrorRate         float64               `json:"error_rate"`
	TotalRequests     int64                 `json:"total_requests"`
	ByProvider        []ProviderReliability `json:"by_provider"`
	ByModel           []ModelPerformance    `json:"by_model"`
	Benchmarks        []Benchmark           `json:"benchmarks"`
	GeneratedAt       time.Time             `json:"generated_at"`
}

// ProviderReliability extends a provider's raw performance with the
// deterministic reliability score.
type ProviderReliability struct {
	ProviderPerformance
	Reliability float64 `json:"reliability"`
}

// RealTimePerformance is a short-window snapshot served without the cache
// layer's longer TTL classes.
type RealTimePerformance struct {
	TenantID            string    `json:"tenant_id"`
	WindowMinutes       int       `json:"window_minutes"`
	RequestsPerMinute   float64   `json:"requests_per_minute"`
	AvgResponseTimeMs   float64   `json:"avg_response_time_ms"`
	ErrorRate           float64   `json:"error_rate"`
	ActiveConversations int64     `json:"active_conversations"`
	CapturedAt          time.Time `json:"captured_at"`
}

// TenantUsage is one tenant's slice of the cross-tenant usage report.
type TenantUsage struct {
	TenantID      string  `json:"tenant_id"`
	TotalMessages int64   `json:"total_messages"`
	TotalCostUSD  float64 `json:"total_cost_usd"`
	ActiveUsers   int64   `json:"active_users"`
}

// GlobalUsage is the cross-tenant usage report. Admin only.
type GlobalUsage struct {
	Period        string        `json:"period"`
	Range         DateRange     `json:"range"`
	TenantCount   int64         `json:"tenant_count"`
	TotalMessages int64         `json:"total_messages"`
	TotalCostUSD  float64       `json:"total_cost_usd"`
	TopTenants    []TenantUsage `json:"top_tenants"`
	GeneratedAt   time.Time     `json:"generated_at"`
}
