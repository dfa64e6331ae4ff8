package analytics

// SavingsCategory names one optimization lever and its estimated value.
// Categories are independent percentages of the same total cost; they are
// not required to sum to the aggregate savings figure.
type SavingsCategory struct {
	Category     string  `json:"category"`
	EstimatedUSD float64 `json:"estimated_usd"`
	Percent      float64 `json:"percent"`
}

// Savings is the potential-savings block of a composite result.
type Savings struct {
	TotalEstimatedUSD float64           `json:"total_estimated_usd"`
	Categories        []SavingsCategory `json:"categories"`
}

// Projection extrapolates current-period totals to monthly and annual
// horizons using a configured growth rate.
type Projection struct {
	MonthlyCostUSD float64 `json:"monthly_cost_usd"`
	AnnualCostUSD  float64 `json:"annual_cost_usd"`
	GrowthRate     float64 `json:"growth_rate"`
}

// Benchmark compares an observed metric against a fixed industry reference
// and, when a previous-period value was supplied, against that too.
type Benchmark struct {
	Metric           string   `json:"metric"`
	Observed         float64  `json:"observed"`
	IndustryAvg      float64  `json:"industry_avg"`
	DeltaFromAvgPct  float64  `json:"delta_from_avg_pct"`
	DeltaFromPrevPct *float64 `json:"delta_from_prev_pct,omitempty"`
}
