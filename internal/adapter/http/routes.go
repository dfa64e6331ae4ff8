package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prismgate/analytics/internal/middleware"
)

// MountRoutes registers the analytics API on the given chi router. The admin
// token hash guards the cross-tenant usage endpoint.
func MountRoutes(r chi.Router, h *Handlers, adminTokenHash string) {
	r.Get("/healthz", h.HandleHealth)

	r.Route("/api/v1/ai", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Tenant stats
		r.Get("/stats/{tenantID}", h.GetTenantStats)
		r.Post("/stats/{tenantID}/export", h.ExportTenantStats)

		// Costs
		r.Get("/costs", h.GetCostAnalytics)
		r.Get("/costs/{conversationID}", h.GetConversationCost)

		// Performance
		r.Get("/performance", h.GetPerformanceMetrics)
		r.Get("/performance/realtime", h.GetRealTimePerformance)

		// Quotas
		r.Get("/quotas", h.GetQuotaStatus)
		r.Post("/quotas/config", h.UpdateQuotaConfig)
		r.Post("/quotas/test", h.SimulateQuota)

		// Export job lifecycle
		r.Post("/export", h.CreateExportJob)
		r.Get("/export/{id}/status", h.GetExportJobStatus)
		r.Get("/export/{id}/download", h.DownloadExport)

		// Cross-tenant usage (admin only)
		r.With(middleware.AdminToken(adminTokenHash)).Get("/usage", h.GetGlobalUsage)

		// Realtime dashboard channel
		if h.Hub != nil {
			r.Get("/ws", h.Hub.HandleWS)
		}
	})
}
