package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prismgate/analytics/internal/config"
	"github.com/prismgate/analytics/internal/domain"
	"github.com/prismgate/analytics/internal/domain/quota"
	"github.com/prismgate/analytics/internal/port/bus"
	"github.com/prismgate/analytics/internal/port/quotastore"
)

var (
	_ quotastore.Store = (*mockQuotaStore)(nil)
	_ bus.Bus          = (*mockBus)(nil)
	_ QuotaNotifier    = (*mockNotifier)(nil)
)

type mockQuotaStore struct {
	configs   map[string]*quota.Config
	getErr    error
	upsertErr error
	upserts   int
}

func newMockQuotaStore() *mockQuotaStore {
	return &mockQuotaStore{configs: make(map[string]*quota.Config)}
}

func (m *mockQuotaStore) GetConfig(_ context.Context, tenantID string) (*quota.Config, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	cfg, ok := m.configs[tenantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cfg, nil
}

func (m *mockQuotaStore) UpsertConfig(_ context.Context, cfg *quota.Config) error {
	m.upserts++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.configs[cfg.TenantID] = cfg
	return nil
}

type mockBus struct {
	published []string
	pubErr    error
}

func (m *mockBus) Publish(_ context.Context, subject string, _ []byte) error {
	if m.pubErr != nil {
		return m.pubErr
	}
	m.published = append(m.published, subject)
	return nil
}

func (m *mockBus) Subscribe(_ context.Context, _ string, _ bus.Handler) (func(), error) {
	return func() {}, nil
}

func (m *mockBus) Close() error { return nil }

type mockNotifier struct {
	notified []string
}

func (m *mockNotifier) BroadcastQuotaChanged(_ context.Context, tenantID string) {
	m.notified = append(m.notified, tenantID)
}

func testQuotaDefaults() config.Quota {
	return config.Quota{
		WarningThreshold:  80,
		CriticalThreshold: 95,
		DailyCostLimitUSD: 100,
		MonthlyCostLimit:  2000,
		DailyTokenLimit:   1_000_000,
		DailyMessageLimit: 10_000,
	}
}

func newQuotaService(store *mockQuotaStore, usage *mockUsageSource, cache *mockCache, b bus.Bus) *QuotaService {
	orch := NewOrchestrator(cache, testTTL(), testLogger(), nil)
	return NewQuotaService(store, usage, orch, b, nil, nil, testQuotaDefaults(), testLogger())
}

func TestQuotaStatusBands(t *testing.T) {
	usage := &mockUsageSource{quota: &quota.Usage{
		DailyCostUSD:   79.9,
		MonthlyCostUSD: 1600, // 80% of 2000
		DailyTokens:    950_000,
		DailyMessages:  10_000,
	}}
	svc := newQuotaService(newMockQuotaStore(), usage, newMockCache(), nil)

	got, err := svc.Status(context.Background(), "T1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Bands) != 4 {
		t.Fatalf("got %d bands, want 4", len(got.Bands))
	}

	byDim := map[quota.Dimension]quota.Band{}
	for _, b := range got.Bands {
		byDim[b.Dimension] = b
	}
	if s := byDim[quota.DimensionDailyCost].Status; s != quota.StatusSafe {
		t.Errorf("79.9%% daily cost = %q, want safe", s)
	}
	if s := byDim[quota.DimensionMonthlyCost].Status; s != quota.StatusWarning {
		t.Errorf("80%% monthly cost = %q, want warning", s)
	}
	if s := byDim[quota.DimensionDailyTokens].Status; s != quota.StatusCritical {
		t.Errorf("95%% daily tokens = %q, want critical", s)
	}
	if s := byDim[quota.DimensionDailyMessages].Status; s != quota.StatusExceeded {
		t.Errorf("100%% daily messages = %q, want exceeded", s)
	}
	if rem := byDim[quota.DimensionDailyMessages].Remaining; rem != 0 {
		t.Errorf("exceeded remaining = %v, want clamped to 0", rem)
	}
}

func TestQuotaStatusZeroLimitDisablesDimension(t *testing.T) {
	store := newMockQuotaStore()
	store.configs["T1"] = &quota.Config{
		TenantID:          "T1",
		DailyCostLimitUSD: 50,
		WarningThreshold:  80,
		CriticalThreshold: 95,
	}
	usage := &mockUsageSource{quota: &quota.Usage{DailyCostUSD: 10}}
	svc := newQuotaService(store, usage, newMockCache(), nil)

	got, err := svc.Status(context.Background(), "T1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Bands) != 1 {
		t.Errorf("got %d bands, want 1 (zero limits disabled)", len(got.Bands))
	}
	if got.Bands[0].Dimension != quota.DimensionDailyCost {
		t.Errorf("band = %q, want daily_cost", got.Bands[0].Dimension)
	}
}

func TestQuotaStatusDefaultsWhenUnconfigured(t *testing.T) {
	usage := &mockUsageSource{quota: &quota.Usage{DailyCostUSD: 50}}
	svc := newQuotaService(newMockQuotaStore(), usage, newMockCache(), nil)

	got, err := svc.Status(context.Background(), "T1")
	if err != nil {
		t.Fatalf("unconfigured tenant must use defaults, got: %v", err)
	}
	byDim := map[quota.Dimension]quota.Band{}
	for _, b := range got.Bands {
		byDim[b.Dimension] = b
	}
	if lim := byDim[quota.DimensionDailyCost].Limit; lim != 100 {
		t.Errorf("default daily cost limit = %v, want 100", lim)
	}
}

func TestUpdateConfigInvalidatesCacheAndPublishes(t *testing.T) {
	store := newMockQuotaStore()
	cache := newMockCache()
	b := &mockBus{}
	usage := &mockUsageSource{quota: &quota.Usage{DailyCostUSD: 10}}
	svc := newQuotaService(store, usage, cache, b)

	// Prime the cache.
	if _, err := svc.Status(context.Background(), "T1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cache.entries) != 1 {
		t.Fatalf("status not cached")
	}

	err := svc.UpdateConfig(context.Background(), &quota.Config{
		TenantID:          "T1",
		DailyCostLimitUSD: 500,
		WarningThreshold:  70,
		CriticalThreshold: 90,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.upserts != 1 {
		t.Errorf("config not persisted")
	}
	if len(cache.entries) != 0 {
		t.Errorf("cached quota entry must be invalidated on config update")
	}
	if len(b.published) != 1 || b.published[0] != bus.SubjectInvalidateQuota {
		t.Errorf("published = %v, want one invalidation event", b.published)
	}

	// Next status must see the new limit.
	got, err := svc.Status(context.Background(), "T1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Bands[0].Limit != 500 {
		t.Errorf("limit = %v, want updated 500", got.Bands[0].Limit)
	}
}

func TestUpdateConfigBusFailureTolerated(t *testing.T) {
	store := newMockQuotaStore()
	b := &mockBus{pubErr: errors.New("bus down")}
	usage := &mockUsageSource{quota: &quota.Usage{}}
	svc := newQuotaService(store, usage, newMockCache(), b)

	err := svc.UpdateConfig(context.Background(), &quota.Config{
		TenantID:          "T1",
		WarningThreshold:  80,
		CriticalThreshold: 95,
	})
	if err != nil {
		t.Errorf("bus failure must not fail the update: %v", err)
	}
}

func TestUpdateConfigNotifiesConnectedClients(t *testing.T) {
	store := newMockQuotaStore()
	notify := &mockNotifier{}
	orch := NewOrchestrator(newMockCache(), testTTL(), testLogger(), nil)
	svc := NewQuotaService(store, &mockUsageSource{}, orch, nil, nil, notify, testQuotaDefaults(), testLogger())

	err := svc.UpdateConfig(context.Background(), &quota.Config{
		TenantID:          "T1",
		WarningThreshold:  80,
		CriticalThreshold: 95,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notify.notified) != 1 || notify.notified[0] != "T1" {
		t.Errorf("notified = %v, want one event for T1", notify.notified)
	}

	// A rejected update must not notify.
	if err := svc.UpdateConfig(context.Background(), &quota.Config{TenantID: ""}); err == nil {
		t.Fatal("expected validation error")
	}
	if len(notify.notified) != 1 {
		t.Errorf("notified = %v, want no event for a rejected update", notify.notified)
	}
}

func TestUpdateConfigThresholdValidation(t *testing.T) {
	svc := newQuotaService(newMockQuotaStore(), &mockUsageSource{}, newMockCache(), nil)

	tests := []struct {
		name string
		cfg  quota.Config
	}{
		{"missing tenant", quota.Config{WarningThreshold: 80, CriticalThreshold: 95}},
		{"warning above critical", quota.Config{TenantID: "T1", WarningThreshold: 96, CriticalThreshold: 95}},
		{"zero warning", quota.Config{TenantID: "T1", WarningThreshold: 0, CriticalThreshold: 95}},
		{"critical above 100", quota.Config{TenantID: "T1", WarningThreshold: 80, CriticalThreshold: 150}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := svc.UpdateConfig(context.Background(), &cfg); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSimulateDoesNotCache(t *testing.T) {
	cache := newMockCache()
	svc := newQuotaService(newMockQuotaStore(), &mockUsageSource{}, cache, nil)

	got, err := svc.Simulate(context.Background(), "T1", quota.Usage{DailyCostUSD: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byDim := map[quota.Dimension]quota.Band{}
	for _, b := range got.Bands {
		byDim[b.Dimension] = b
	}
	if s := byDim[quota.DimensionDailyCost].Status; s != quota.StatusExceeded {
		t.Errorf("100/100 = %q, want exceeded", s)
	}
	if len(cache.entries) != 0 {
		t.Error("simulation must not populate the cache")
	}
	if cache.sets != 0 {
		t.Error("simulation must not write to the store")
	}
}

func TestHandleInvalidation(t *testing.T) {
	cache := newMockCache()
	usage := &mockUsageSource{quota: &quota.Usage{}}
	svc := newQuotaService(newMockQuotaStore(), usage, cache, nil)

	if _, err := svc.Status(context.Background(), "T1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cache.entries) != 1 {
		t.Fatal("status not cached")
	}

	if err := svc.HandleInvalidation(context.Background(), bus.SubjectInvalidateQuota, []byte(`{"tenant_id":"T1"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cache.entries) != 0 {
		t.Error("invalidation event must drop the cached entry")
	}

	if err := svc.HandleInvalidation(context.Background(), bus.SubjectInvalidateQuota, []byte(`{}`)); err == nil {
		t.Error("payload without tenant id must be rejected")
	}
	if err := svc.HandleInvalidation(context.Background(), bus.SubjectInvalidateQuota, []byte(`not json`)); err == nil {
		t.Error("malformed payload must be rejected")
	}
}
