package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prismgate/analytics/internal/domain/analytics"
	"github.com/prismgate/analytics/internal/domain/export"
)

// GetTenantStats handles GET /api/v1/ai/stats/{tenantID}.
func (h *Handlers) GetTenantStats(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	q, ok := parseAnalyticsQuery(w, r, tenantID)
	if !ok {
		return
	}

	stats, err := h.Stats.TenantStats(r.Context(), q)
	if err != nil {
		writeDomainError(w, err, "tenant stats not found")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type statsExportRequest struct {
	Format         string `json:"format"`
	Period         string `json:"period"`
	StartDate      string `json:"startDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	IncludeMetrics *bool  `json:"includeMetrics,omitempty"`
}

// ExportTenantStats handles POST /api/v1/ai/stats/{tenantID}/export. The
// artifact is returned inline as a download.
func (h *Handlers) ExportTenantStats(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	req, ok := readJSON[statsExportRequest](w, r)
	if !ok {
		return
	}

	q := analytics.Query{TenantID: tenantID, Period: req.Period}
	if req.StartDate != "" {
		t, err := parseDate(req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		q.Start = &t
	}
	if req.EndDate != "" {
		t, err := parseDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid endDate")
			return
		}
		q.End = &t
	}

	artifact, err := h.Exports.Export(r.Context(), q, export.Format(req.Format), includeMetrics(req.IncludeMetrics))
	if err != nil {
		writeDomainError(w, err, "tenant stats not found")
		return
	}
	writeArtifact(w, artifact)
}

// includeMetrics resolves the optional includeMetrics export field; absent
// means true.
func includeMetrics(p *bool) bool {
	return p == nil || *p
}

func writeArtifact(w http.ResponseWriter, a *export.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+a.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}
