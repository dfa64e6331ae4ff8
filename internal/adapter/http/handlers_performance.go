package http

import "net/http"

// GetPerformanceMetrics handles GET /api/v1/ai/performance.
func (h *Handlers) GetPerformanceMetrics(w http.ResponseWriter, r *http.Request) {
	q, ok := parseAnalyticsQuery(w, r, tenantFromRequest(r))
	if !ok {
		return
	}

	perf, err := h.Performance.Metrics(r.Context(), q)
	if err != nil {
		writeDomainError(w, err, "performance metrics not found")
		return
	}
	writeJSON(w, http.StatusOK, perf)
}

// GetRealTimePerformance handles GET /api/v1/ai/performance/realtime.
// Always computed fresh, never served from cache.
func (h *Handlers) GetRealTimePerformance(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Performance.RealTime(r.Context(), tenantFromRequest(r))
	if err != nil {
		writeDomainError(w, err, "realtime performance not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
