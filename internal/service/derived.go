package service

import (
	"github.com/prismgate/analytics/internal/config"
	"github.com/prismgate/analytics/internal/domain/analytics"
)

// Savings category names. Each category is an independent percentage of
// total cost; the percentages come from config.Derived, never inline.
const (
	SavingsCategoryCache  = "cache_optimization"
	SavingsCategoryModel  = "model_optimization"
	SavingsCategoryPrompt = "prompt_optimization"
)

// Benchmark metric names.
const (
	BenchmarkResponseTime = "avg_response_time_ms"
	BenchmarkConfidence   = "avg_confidence"
)

// projectionMonthDays is the month length used when extrapolating a period
// total to a monthly figure.
const projectionMonthDays = 30.0

// Estimator scores provider efficiency from joined fields. Implementations
// must be deterministic: the same inputs always produce the same score.
type Estimator interface {
	Score(avgResponseTimeMs, errorRate float64) float64
}

// ThresholdEstimator is the default Estimator. It starts from a perfect
// score, deducts for response-time bands and error rate, and clamps at the
// configured floor.
type ThresholdEstimator struct {
	Floor float64
}

// Score implements Estimator.
func (e ThresholdEstimator) Score(avgResponseTimeMs, errorRate float64) float64 {
	score := 1.0
	switch {
	case avgResponseTimeMs > 5000:
		score -= 0.25
	case avgResponseTimeMs > 2000:
		score -= 0.15
	case avgResponseTimeMs > 1000:
		score -= 0.05
	}
	score -= errorRate * 0.5
	if score < e.Floor {
		return e.Floor
	}
	return score
}

// PreviousPeriod carries prior-period observations for benchmark deltas.
// The engine never computes these itself; callers supply them or the
// previous-period comparison is omitted.
type PreviousPeriod struct {
	AvgResponseTimeMs float64
	AvgConfidence     float64
}

// DerivedEngine computes secondary metrics from already-joined data. All
// methods are pure functions; no source is ever called from here.
type DerivedEngine struct {
	cfg config.Derived
	est Estimator
}

// NewDerivedEngine creates a DerivedEngine. A nil estimator selects the
// ThresholdEstimator with the configured floor.
func NewDerivedEngine(cfg config.Derived, est Estimator) *DerivedEngine {
	if est == nil {
		est = ThresholdEstimator{Floor: cfg.ReliabilityFloor}
	}
	return &DerivedEngine{cfg: cfg, est: est}
}

// Score exposes the estimator for the join engine's per-row reliability.
func (e *DerivedEngine) Score(avgResponseTimeMs, errorRate float64) float64 {
	return e.est.Score(avgResponseTimeMs, errorRate)
}

// Savings decomposes total cost into the named optimization categories.
func (e *DerivedEngine) Savings(totalCostUSD float64) analytics.Savings {
	categories := []analytics.SavingsCategory{
		{Category: SavingsCategoryCache, Percent: e.cfg.CacheSavingsPct, EstimatedUSD: totalCostUSD * e.cfg.CacheSavingsPct},
		{Category: SavingsCategoryModel, Percent: e.cfg.ModelSavingsPct, EstimatedUSD: totalCostUSD * e.cfg.ModelSavingsPct},
		{Category: SavingsCategoryPrompt, Percent: e.cfg.PromptSavingsPct, EstimatedUSD: totalCostUSD * e.cfg.PromptSavingsPct},
	}
	var total float64
	for _, c := range categories {
		total += c.EstimatedUSD
	}
	return analytics.Savings{TotalEstimatedUSD: total, Categories: categories}
}

// Projection extrapolates the period's total cost to monthly and annual
// horizons, applying the configured growth rate.
func (e *DerivedEngine) Projection(totalCostUSD float64, r analytics.DateRange) analytics.Projection {
	days := r.Duration().Hours() / 24
	if days <= 0 {
		days = 1
	}
	monthly := totalCostUSD / days * projectionMonthDays * (1 + e.cfg.GrowthRate)
	return analytics.Projection{
		MonthlyCostUSD: monthly,
		AnnualCostUSD:  monthly * 12,
		GrowthRate:     e.cfg.GrowthRate,
	}
}

// Benchmarks compares observed response time and confidence against the
// industry reference values and, when prev is non-nil, against the previous
// period.
func (e *DerivedEngine) Benchmarks(avgResponseTimeMs, avgConfidence float64, prev *PreviousPeriod) []analytics.Benchmark {
	rt := analytics.Benchmark{
		Metric:          BenchmarkResponseTime,
		Observed:        avgResponseTimeMs,
		IndustryAvg:     e.cfg.IndustryAvgResponseMs,
		DeltaFromAvgPct: deltaPct(avgResponseTimeMs, e.cfg.IndustryAvgResponseMs),
	}
	conf := analytics.Benchmark{
		Metric:          BenchmarkConfidence,
		Observed:        avgConfidence,
		IndustryAvg:     e.cfg.IndustryAvgConfidence,
		DeltaFromAvgPct: deltaPct(avgConfidence, e.cfg.IndustryAvgConfidence),
	}
	if prev != nil {
		if d := deltaPct(avgResponseTimeMs, prev.AvgResponseTimeMs); prev.AvgResponseTimeMs > 0 {
			rt.DeltaFromPrevPct = &d
		}
		if d := deltaPct(avgConfidence, prev.AvgConfidence); prev.AvgConfidence > 0 {
			conf.DeltaFromPrevPct = &d
		}
	}
	return []analytics.Benchmark{rt, conf}
}

// deltaPct returns the percentage delta of observed against reference.
// A zero reference yields 0 rather than dividing by zero.
func deltaPct(observed, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	return (observed - reference) / reference * 100
}

// previousRange returns the window of equal length immediately before r.
func previousRange(r analytics.DateRange) analytics.DateRange {
	d := r.Duration()
	return analytics.DateRange{Start: r.Start.Add(-d), End: r.Start}
}
