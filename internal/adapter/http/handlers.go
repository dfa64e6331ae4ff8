package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prismgate/analytics/internal/adapter/ws"
	"github.com/prismgate/analytics/internal/domain/analytics"
	"github.com/prismgate/analytics/internal/middleware"
	"github.com/prismgate/analytics/internal/service"
)

// ComponentCheck reports whether one backing component is reachable.
type ComponentCheck func(ctx context.Context) error

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Stats       *service.StatsService
	Costs       *service.CostService
	Performance *service.PerformanceService
	Quotas      *service.QuotaService
	Exports     *service.ExportService
	Usage       *service.UsageService
	Hub         *ws.Hub
	Checks      map[string]ComponentCheck
}

// tenantFromRequest resolves the tenant for a request: an explicit tenantId
// query parameter wins over the X-Tenant-ID header value.
func tenantFromRequest(r *http.Request) string {
	if tid := r.URL.Query().Get("tenantId"); tid != "" {
		return tid
	}
	return middleware.TenantIDFromContext(r.Context())
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseAnalyticsQuery builds an analytics query from the request's query
// string. Invalid dates are a hard 400; everything else has a lenient
// default.
func parseAnalyticsQuery(w http.ResponseWriter, r *http.Request, tenantID string) (analytics.Query, bool) {
	params := r.URL.Query()
	q := analytics.Query{
		TenantID: tenantID,
		Period:   params.Get("period"),
	}

	if s := params.Get("startDate"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid startDate")
			return q, false
		}
		q.Start = &t
	}
	if s := params.Get("endDate"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid endDate")
			return q, false
		}
		q.End = &t
	}

	q.Filters.Providers = append(params["providers"], params["providers[]"]...)
	q.Filters.Models = append(params["models"], params["models[]"]...)
	q.Filters.TopUsersLimit = parsePositiveInt(params.Get("topUsersLimit"))
	q.Filters.TopConversationsLimit = parsePositiveInt(params.Get("topConversationsLimit"))
	return q, true
}

func parsePositiveInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// HandleHealth handles GET /healthz. Reports per-component status and
// returns 503 when any check fails.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]string, len(h.Checks))
	healthy := true
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			components[name] = "error"
			healthy = false
			continue
		}
		components[name] = "ok"
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	writeJSON(w, status, map[string]any{
		"status":     overall,
		"components": components,
	})
}
