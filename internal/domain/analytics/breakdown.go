package analytics

// BreakdownRow is a joined per-provider or per-model record produced by
// merging same-key rows across the raw aggregates. Fields absent from a
// source default to zero; a row is never dropped for missing a source.
type BreakdownRow struct {
	Provider          string  `json:"provider"`
	Model             string  `json:"model,omitempty"`
	CostUSD           float64 `json:"cost_usd"`
	CostShare         float64 `json:"cost_share"`
	MessageCount      int64   `json:"message_count"`
	TokensIn          int64   `json:"tokens_in"`
	TokensOut         int64   `json:"tokens_out"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
	AvgConfidence     float64 `json:"avg_confidence"`
	ErrorRate         float64 `json:"error_rate"`
	Reliability       float64 `json:"reliability"`
}
