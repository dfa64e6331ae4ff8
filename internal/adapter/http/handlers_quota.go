package http

import (
	"net/http"

	"github.com/prismgate/analytics/internal/domain/quota"
)

// GetQuotaStatus handles GET /api/v1/ai/quotas.
func (h *Handlers) GetQuotaStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Quotas.Status(r.Context(), tenantFromRequest(r))
	if err != nil {
		writeDomainError(w, err, "quota status not found")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// UpdateQuotaConfig handles POST /api/v1/ai/quotas/config. The tenant's
// cached quota status is invalidated immediately on success.
func (h *Handlers) UpdateQuotaConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := readJSON[quota.Config](w, r)
	if !ok {
		return
	}
	if cfg.TenantID == "" {
		cfg.TenantID = tenantFromRequest(r)
	}

	if err := h.Quotas.UpdateConfig(r.Context(), &cfg); err != nil {
		writeDomainError(w, err, "quota config not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SimulateQuota handles POST /api/v1/ai/quotas/test. Classifies a
// hypothetical usage without touching the cache.
func (h *Handlers) SimulateQuota(w http.ResponseWriter, r *http.Request) {
	usage, ok := readJSON[quota.Usage](w, r)
	if !ok {
		return
	}

	status, err := h.Quotas.Simulate(r.Context(), tenantFromRequest(r), usage)
	if err != nil {
		writeDomainError(w, err, "quota status not found")
		return
	}
	writeJSON(w, http.StatusOK, status)
}
