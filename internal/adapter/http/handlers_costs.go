package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetCostAnalytics handles GET /api/v1/ai/costs.
func (h *Handlers) GetCostAnalytics(w http.ResponseWriter, r *http.Request) {
	q, ok := parseAnalyticsQuery(w, r, tenantFromRequest(r))
	if !ok {
		return
	}

	costs, err := h.Costs.Analytics(r.Context(), q)
	if err != nil {
		writeDomainError(w, err, "cost analytics not found")
		return
	}
	writeJSON(w, http.StatusOK, costs)
}

// GetConversationCost handles GET /api/v1/ai/costs/{conversationID}.
// Responds 404 when the conversation does not exist for the tenant.
func (h *Handlers) GetConversationCost(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	tenantID := tenantFromRequest(r)

	cost, err := h.Costs.ConversationCost(r.Context(), tenantID, conversationID)
	if err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, cost)
}
