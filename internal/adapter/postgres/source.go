package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Source implements the metric source ports (cost, performance, usage and
// conversation) with SQL aggregations over the ai_requests and
// conversations tables. Each method issues its queries against the shared
// pool; the engine's fan-out runs them concurrently.
type Source struct {
	pool *pgxpool.Pool
}

// NewSource creates a Source backed by the given connection pool.
func NewSource(pool *pgxpool.Pool) *Source {
	return &Source{pool: pool}
}
