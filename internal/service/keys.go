package service

import (
	"strings"

	"github.com/prismgate/analytics/internal/domain/analytics"
)

// Result type tokens used as cache key prefixes. All key construction goes
// through CacheKey so that invalidation and lookup always agree.
const (
	resultTypeStats       = "tenant_stats"
	resultTypeCosts       = "cost_analytics"
	resultTypePerformance = "performance"
	resultTypeQuota       = "quota_status"
	resultTypeGlobalUsage = "global_usage"
)

// keyDateLayout is the granularity of range bounds inside cache keys.
// Rolling windows resolve a fresh "now" per request; day granularity keeps
// keys stable within a day while the class TTL bounds staleness.
const keyDateLayout = "2006-01-02"

// CacheKey builds the deterministic cache key
// "<resultType>:<tenantID>:<period>:<start>:<end>[:<fingerprint>]".
func CacheKey(resultType, tenantID, period string, r analytics.DateRange, fingerprint string) string {
	var b strings.Builder
	b.WriteString(resultType)
	b.WriteByte(':')
	b.WriteString(tenantID)
	b.WriteByte(':')
	b.WriteString(period)
	b.WriteByte(':')
	b.WriteString(r.Start.UTC().Format(keyDateLayout))
	b.WriteByte(':')
	b.WriteString(r.End.UTC().Format(keyDateLayout))
	if fingerprint != "" {
		b.WriteByte(':')
		b.WriteString(fingerprint)
	}
	return b.String()
}

// QuotaCacheKey builds the cache key for a tenant's quota status. Quota
// entries are keyed by tenant only; they are invalidated explicitly when
// the tenant's configuration changes.
func QuotaCacheKey(tenantID string) string {
	return resultTypeQuota + ":" + tenantID
}
