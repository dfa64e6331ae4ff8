// Package analytics defines domain types for tenant-scoped usage, cost and
// performance analytics.
package analytics

import (
	"fmt"
	"time"

	"github.com/prismgate/analytics/internal/domain"
)

// Period tokens recognized by ResolvePeriod.
const (
	PeriodLast24h = "last_24h"
	PeriodLast7d  = "last_7d"
	PeriodLast30d = "last_30d"
	PeriodLast90d = "last_90d"
	PeriodCustom  = "custom"
)

// DefaultPeriod is the rolling window used when a non-custom token is not
// recognized. Unknown tokens are accepted and resolved to this window rather
// than rejected; callers that want to surface the fallback should check
// KnownPeriod first.
const DefaultPeriod = PeriodLast7d

// DateRange is a half-open [Start, End) interval. Every analytics
// computation resolves its range before any metric source is queried.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the half-open range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Duration returns End - Start.
func (r DateRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// KnownPeriod reports whether token is one of the recognized period tokens.
func KnownPeriod(token string) bool {
	switch token {
	case PeriodLast24h, PeriodLast7d, PeriodLast30d, PeriodLast90d, PeriodCustom:
		return true
	}
	return false
}

// ResolvePeriod turns a period token and optional explicit bounds into a
// concrete date range ending at now. "custom" uses the explicit bounds
// verbatim; a missing explicit end means "up to now". A "custom" token
// without an explicit start fails with domain.ErrInvalidPeriod. Unrecognized
// non-custom tokens resolve to the DefaultPeriod window.
func ResolvePeriod(token string, explicitStart, explicitEnd *time.Time, now time.Time) (DateRange, error) {
	if token == PeriodCustom {
		if explicitStart == nil {
			return DateRange{}, fmt.Errorf("custom period requires a start date: %w", domain.ErrInvalidPeriod)
		}
		end := now
		if explicitEnd != nil {
			end = *explicitEnd
		}
		if !explicitStart.Before(end) {
			return DateRange{}, fmt.Errorf("custom period start %s is not before end %s: %w",
				explicitStart.Format(time.RFC3339), end.Format(time.RFC3339), domain.ErrInvalidPeriod)
		}
		return DateRange{Start: *explicitStart, End: end}, nil
	}

	var window time.Duration
	switch token {
	case PeriodLast24h:
		window = 24 * time.Hour
	case PeriodLast7d:
		window = 7 * 24 * time.Hour
	case PeriodLast30d:
		window = 30 * 24 * time.Hour
	case PeriodLast90d:
		window = 90 * 24 * time.Hour
	default:
		// Lenient default: unknown tokens fall back to the last_7d window.
		window = 7 * 24 * time.Hour
	}
	return DateRange{Start: now.Add(-window), End: now}, nil
}
