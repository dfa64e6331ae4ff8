package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prismgate/analytics/internal/domain/analytics"
	"github.com/prismgate/analytics/internal/domain/export"
)

type exportJobRequest struct {
	Format         string `json:"format"`
	Period         string `json:"period"`
	StartDate      string `json:"startDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	IncludeMetrics *bool  `json:"includeMetrics,omitempty"`
}

// CreateExportJob handles POST /api/v1/ai/export. Exports are computed
// synchronously; the returned job is already completed.
func (h *Handlers) CreateExportJob(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[exportJobRequest](w, r)
	if !ok {
		return
	}

	q := analytics.Query{TenantID: tenantFromRequest(r), Period: req.Period}
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

	job, err := h.Exports.CreateJob(r.Context(), q, export.Format(req.Format), includeMetrics(req.IncludeMetrics))
	if err != nil {
		writeDomainError(w, err, "export source not found")
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// GetExportJobStatus handles GET /api/v1/ai/export/{id}/status.
func (h *Handlers) GetExportJobStatus(w http.ResponseWriter, r *http.Request) {
	job, err := h.Exports.Job(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "export job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// DownloadExport handles GET /api/v1/ai/export/{id}/download.
func (h *Handlers) DownloadExport(w http.ResponseWriter, r *http.Request) {
	artifact, err := h.Exports.Artifact(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "export job not found")
		return
	}
	writeArtifact(w, artifact)
}
