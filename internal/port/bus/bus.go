// Package bus defines the message bus port used for cross-instance cache
// invalidation.
package bus

import "context"

// Handler processes a message received from the bus.
type Handler func(ctx context.Context, subject string, data []byte) error

// Bus is the port interface for publishing and subscribing to invalidation
// events.
type Bus interface {
	// Publish sends a message to the given subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Subscribe registers a handler for messages on the given subject.
	// The returned function cancels the subscription.
	Subscribe(ctx context.Context, subject string, handler Handler) (cancel func(), err error)

	// Close shuts down the bus connection.
	Close() error
}

// SubjectInvalidateQuota is published when a tenant's quota configuration
// changes. The payload is an InvalidateQuotaPayload; every instance deletes
// the tenant's cached quota entries on receipt.
const SubjectInvalidateQuota = "analytics.invalidate.quota"

// InvalidateQuotaPayload is the schema for quota invalidation messages.
type InvalidateQuotaPayload struct {
	TenantID string `json:"tenant_id"`
}
