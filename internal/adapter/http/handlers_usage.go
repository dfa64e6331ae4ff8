package http

import (
	"net/http"
	"time"
)

// GetGlobalUsage handles GET /api/v1/ai/usage. Admin-only: the route is
// mounted behind the admin token guard.
func (h *Handlers) GetGlobalUsage(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	var start, end *time.Time
	if s := params.Get("startDate"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		start = &t
	}
	if s := params.Get("endDate"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid endDate")
			return
		}
		end = &t
	}

	usage, err := h.Usage.GlobalUsage(r.Context(), params.Get("period"), start, end)
	if err != nil {
		writeDomainError(w, err, "global usage not found")
		return
	}
	writeJSON(w, http.StatusOK, usage)
}
