package analytics

// Raw aggregates are the structured payloads returned by the metric source
// adapters for a (tenant, range) pair. They are immutable once returned;
// the join engine reads them but never mutates them.

// ProviderCost is one provider's slice of the cost aggregate.
type ProviderCost struct {
	Provider     string  `json:"provider"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	MessageCount int64   `json:"message_count"`
	TokensIn     int64   `json:"tokens_in"`
	TokensOut    int64   `json:"tokens_out"`
}

// ModelCost is one model's slice of the cost aggregate.
type ModelCost struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	MessageCount int64   `json:"message_count"`
	TokensIn     int64   `json:"tokens_in"`
	TokensOut    int64   `json:"tokens_out"`
}

// DailyCost holds aggregated cost for a single day of the trend series.
type DailyCost struct {
	Date         string  `json:"date"`
	CostUSD      float64 `json:"cost_usd"`
	MessageCount int64   `json:"message_count"`
	TokensIn     int64   `json:"tokens_in"`
	TokensOut    int64   `json:"tokens_out"`
}

// CostAggregate is the cost source's raw output. Its provider and model
// breakdowns anchor the join: only keys present here appear in the
// composite result's breakdown lists, in this order.
type CostAggregate struct {
	TotalCostUSD   float64        `json:"total_cost_usd"`
	TotalTokensIn  int64          `json:"total_tokens_in"`
	TotalTokensOut int64          `json:"total_tokens_out"`
	ByProvider     []ProviderCost `json:"by_provider"`
	ByModel        []ModelCost    `json:"by_model"`
	Daily          []DailyCost    `json:"daily"`
}

// ProviderPerformance is one provider's slice of the performance aggregate.
type ProviderPerformance struct {
	Provider          string  `json:"provider"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
	AvgConfidence     float64 `json:"avg_confidence"`
	ErrorRate         float64 `json:"error_rate"`
	RequestCount      int64   `json:"request_count"`
}

// ModelPerformance is one model's slice of the performance aggregate.
type ModelPerformance struct {
	Provider          string  `json:"provider"`
	Model             string  `json:"model"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
	AvgConfidence     float64 `json:"avg_confidence"`
	ErrorRate         float64 `json:"error_rate"`
	RequestCount      int64   `json:"request_count"`
}

// PerformanceAggregate is the performance source's raw output.
type PerformanceAggregate struct {
	AvgResponseTimeMs float64               `json:"avg_response_time_ms"`
	P95ResponseTimeMs float64               `json:"p95_response_time_ms"`
	AvgConfidence     float64               `json:"avg_confidence"`
	ErrorRate         float64               `json:"error_rate"`
	TotalRequests     int64                 `json:"total_requests"`
	ByProvider        []ProviderPerformance `json:"by_provider"`
	ByModel           []ModelPerformance    `json:"by_model"`
}

// UserUsage is one user's slice of the usage aggregate.
type UserUsage struct {
	UserID       string  `json:"user_id"`
	MessageCount int64   `json:"message_count"`
	CostUSD      float64 `json:"cost_usd"`
}

// UsageAggregate is the usage source's raw output.
type UsageAggregate struct {
	TotalMessages      int64       `json:"total_messages"`
	TotalConversations int64       `json:"total_conversations"`
	ActiveUsers        int64       `json:"active_users"`
	TopUsers           []UserUsage `json:"top_users"`
}

// ConversationUsage is one conversation's slice of the conversation aggregate.
type ConversationUsage struct {
	ConversationID string  `json:"conversation_id"`
	Title          string  `json:"title"`
	MessageCount   int64   `json:"message_count"`
	CostUSD        float64 `json:"cost_usd"`
}

// ConversationAggregate is the conversation source's raw output.
type ConversationAggregate struct {
	TopConversations []ConversationUsage `json:"top_conversations"`
}
