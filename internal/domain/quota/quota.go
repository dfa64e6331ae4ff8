// Package quota defines quota bands, per-tenant limit configuration and the
// threshold classification rules.
package quota

import "time"

// Status is the threshold band a quota dimension currently sits in.
type Status string

const (
	StatusSafe     Status = "safe"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusExceeded Status = "exceeded"
)

// Dimension names one limited resource.
type Dimension string

const (
	DimensionDailyCost     Dimension = "daily_cost"
	DimensionMonthlyCost   Dimension = "monthly_cost"
	DimensionDailyTokens   Dimension = "daily_tokens"
	DimensionDailyMessages Dimension = "daily_messages"
)

// Config holds a tenant's limits and thresholds. Thresholds are percentages
// in [0, 100]; a zero limit disables the dimension.
type Config struct {
	TenantID          string    `json:"tenant_id"`
	DailyCostLimitUSD float64   `json:"daily_cost_limit_usd"`
	MonthlyCostLimit  float64   `json:"monthly_cost_limit_usd"`
	DailyTokenLimit   int64     `json:"daily_token_limit"`
	DailyMessageLimit int64     `json:"daily_message_limit"`
	WarningThreshold  float64   `json:"warning_threshold"`
	CriticalThreshold float64   `json:"critical_threshold"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Usage holds the raw counters the quota bands are classified from.
type Usage struct {
	DailyCostUSD   float64 `json:"daily_cost_usd"`
	MonthlyCostUSD float64 `json:"monthly_cost_usd"`
	DailyTokens    int64   `json:"daily_tokens"`
	DailyMessages  int64   `json:"daily_messages"`
}

// Band is one quota dimension's usage mapped against its limit.
type Band struct {
	Dimension    Dimension `json:"dimension"`
	Limit        float64   `json:"limit"`
	Used         float64   `json:"used"`
	Remaining    float64   `json:"remaining"`
	UsagePercent float64   `json:"usage_percent"`
	ResetAt      time.Time `json:"reset_at"`
	Status       Status    `json:"status"`
}

// TenantStatus is the full quota report for one tenant.
type TenantStatus struct {
	TenantID    string    `json:"tenant_id"`
	Bands       []Band    `json:"bands"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Classify maps a usage percentage to a status band. Thresholds are
// inclusive on the upper side: exactly warningThreshold is warning, exactly
// criticalThreshold is critical, and 100 or more is exceeded.
func Classify(usagePercent, warningThreshold, criticalThreshold float64) Status {
	switch {
	case usagePercent >= 100:
		return StatusExceeded
	case usagePercent >= criticalThreshold:
		return StatusCritical
	case usagePercent >= warningThreshold:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// NextDailyReset returns the next local midnight after now.
func NextDailyReset(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// NextMonthlyReset returns midnight on the first day of the month after now.
func NextMonthlyReset(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, now.Location())
}
