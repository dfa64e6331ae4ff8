package service

import "github.com/prismgate/analytics/internal/domain/analytics"

// The join engine merges raw aggregates into ordered breakdown rows. The
// cost aggregate anchors the join: its key set defines which providers and
// models appear and in what order. Rows missing from the performance
// aggregate get zero-valued performance fields, never a dropped row. Each
// lookup index is built once per join, so the join is O(n) in total rows.

// joinProviders left-joins provider performance onto the cost aggregate's
// provider rows and computes per-row derived fields.
func joinProviders(costs []analytics.ProviderCost, perf []analytics.ProviderPerformance, totalCostUSD float64, est Estimator) []analytics.BreakdownRow {
	idx := make(map[string]analytics.ProviderPerformance, len(perf))
	for _, p := range perf {
		idx[p.Provider] = p
	}

	rows := make([]analytics.BreakdownRow, 0, len(costs))
	for _, c := range costs {
		row := analytics.BreakdownRow{
			Provider:     c.Provider,
			CostUSD:      c.TotalCostUSD,
			MessageCount: c.MessageCount,
			TokensIn:     c.TokensIn,
			TokensOut:    c.TokensOut,
		}
		if totalCostUSD > 0 {
			row.CostShare = c.TotalCostUSD / totalCostUSD
		}
		if p, ok := idx[c.Provider]; ok {
			row.AvgResponseTimeMs = p.AvgResponseTimeMs
			row.AvgConfidence = p.AvgConfidence
			row.ErrorRate = p.ErrorRate
		}
		row.Reliability = est.Score(row.AvgResponseTimeMs, row.ErrorRate)
		rows = append(rows, row)
	}
	return rows
}

// joinModels left-joins model performance onto the cost aggregate's model
// rows, keyed by (provider, model).
func joinModels(costs []analytics.ModelCost, perf []analytics.ModelPerformance, totalCostUSD float64, est Estimator) []analytics.BreakdownRow {
	idx := make(map[modelKey]analytics.ModelPerformance, len(perf))
	for _, p := range perf {
		idx[modelKey{p.Provider, p.Model}] = p
	}

	rows := make([]analytics.BreakdownRow, 0, len(costs))
	for _, c := range costs {
		row := analytics.BreakdownRow{
			Provider:     c.Provider,
			Model:        c.Model,
			CostUSD:      c.TotalCostUSD,
			MessageCount: c.MessageCount,
			TokensIn:     c.TokensIn,
			TokensOut:    c.TokensOut,
		}
		if totalCostUSD > 0 {
			row.CostShare = c.TotalCostUSD / totalCostUSD
		}
		if p, ok := idx[modelKey{c.Provider, c.Model}]; ok {
			row.AvgResponseTimeMs = p.AvgResponseTimeMs
			row.AvgConfidence = p.AvgConfidence
			row.ErrorRate = p.ErrorRate
		}
		row.Reliability = est.Score(row.AvgResponseTimeMs, row.ErrorRate)
		rows = append(rows, row)
	}
	return rows
}

type modelKey struct {
	provider string
	model    string
}
