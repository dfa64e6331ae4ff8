package postgres

import (
	"fmt"
	"strings"

	"github.com/prismgate/analytics/internal/domain/analytics"
)

// scannable abstracts pgx.Row and pgx.Rows for shared scan helpers.
type scannable interface {
	Scan(dest ...any) error
}

// requestWhere builds the WHERE clause shared by every ai_requests
// aggregation: tenant scope, the half-open date range, and the optional
// provider/model filters. Placeholders are numbered from $1; callers append
// their own arguments after the returned ones.
func requestWhere(tenantID string, r analytics.DateRange, f analytics.Filters) (string, []any) {
	var b strings.Builder
	args := []any{tenantID, r.Start, r.End}
	b.WriteString("tenant_id = $1 AND created_at >= $2 AND created_at < $3")

	if len(f.Providers) > 0 {
		args = append(args, f.Providers)
		fmt.Fprintf(&b, " AND provider = ANY($%d)", len(args))
	}
	if len(f.Models) > 0 {
		args = append(args, f.Models)
		fmt.Fprintf(&b, " AND model = ANY($%d)", len(args))
	}
	return b.String(), args
}

// orEmpty returns items unchanged if non-nil, or an empty slice if nil.
// Keeps JSON serialization producing [] instead of null for cached results.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
