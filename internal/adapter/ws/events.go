package ws

import (
	"context"
	"encoding/json"

	"github.com/prismgate/analytics/internal/domain/analytics"
)

// Event type constants for WebSocket messages.
const (
	EventRealTimePerformance = "performance.realtime"
	EventQuotaChanged        = "quota.changed"
)

// BroadcastRealTime pushes a realtime performance snapshot to the snapshot's
// tenant. Implements the performance service's Broadcaster.
func (h *Hub) BroadcastRealTime(ctx context.Context, snap *analytics.RealTimePerformance) {
	h.broadcastEvent(ctx, snap.TenantID, EventRealTimePerformance, snap)
}

// BroadcastQuotaChanged notifies a tenant's clients that quota limits were
// updated and cached status is stale.
func (h *Hub) BroadcastQuotaChanged(ctx context.Context, tenantID string) {
	h.broadcastEvent(ctx, tenantID, EventQuotaChanged, map[string]string{"tenant_id": tenantID})
}

func (h *Hub) broadcastEvent(ctx context.Context, tenantID, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}
	h.BroadcastToTenant(ctx, tenantID, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
