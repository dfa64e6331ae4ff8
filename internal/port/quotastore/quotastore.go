// Package quotastore defines the port for persisted per-tenant quota
// configuration.
package quotastore

import (
	"context"

	"github.com/prismgate/analytics/internal/domain/quota"
)

// Store persists tenant quota configuration. GetConfig returns
// domain.ErrNotFound when the tenant has no stored configuration; callers
// fall back to the configured defaults.
type Store interface {
	GetConfig(ctx context.Context, tenantID string) (*quota.Config, error)
	UpsertConfig(ctx context.Context, cfg *quota.Config) error
}
