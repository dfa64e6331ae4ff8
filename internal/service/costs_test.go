package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prismgate/analytics/internal/domain"
	"github.com/prismgate/analytics/internal/domain/analytics"
)

func newCostService(costs *mockCostSource, perf *mockPerfSource, store *mockCache) *CostService {
	orch := NewOrchestrator(store, testTTL(), testLogger(), nil)
	derived := NewDerivedEngine(testDerivedConfig(), nil)
	return NewCostService(costs, perf, orch, derived, nil, testLogger())
}

func TestCostAnalytics(t *testing.T) {
	costs, perf, _, _ := testSources()
	svc := newCostService(costs, perf, newMockCache())

	got, err := svc.Analytics(context.Background(), analytics.Query{TenantID: "T1", Period: analytics.PeriodLast30d})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalCostUSD != 125.50 {
		t.Errorf("total cost = %v, want 125.50", got.TotalCostUSD)
	}
	if len(got.ByProvider) != 2 {
		t.Fatalf("got %d provider rows, want 2", len(got.ByProvider))
	}
	if got.ByProvider[0].AvgResponseTimeMs != 1400 {
		t.Errorf("openai row not enriched: %+v", got.ByProvider[0])
	}
	if len(got.DailyTrend) != 1 {
		t.Errorf("daily trend missing")
	}
	if got.Projection.MonthlyCostUSD <= 0 {
		t.Errorf("projection missing")
	}
}

func TestCostAnalyticsUsesDashboardTTL(t *testing.T) {
	costs, perf, _, _ := testSources()
	store := newMockCache()
	svc := newCostService(costs, perf, store)

	if _, err := svc.Analytics(context.Background(), analytics.Query{TenantID: "T1", Period: analytics.PeriodLast7d}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for key, ttl := range store.ttls {
		if ttl != testTTL().Dashboard {
			t.Errorf("key %q written with ttl %v, want dashboard ttl", key, ttl)
		}
	}
}

func TestConversationCostNotFound(t *testing.T) {
	costs := &mockCostSource{} // no conversation configured
	svc := newCostService(costs, &mockPerfSource{}, newMockCache())

	_, err := svc.ConversationCost(context.Background(), "T1", "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound to survive wrapping", err)
	}
}

func TestConversationCostUncached(t *testing.T) {
	costs, perf, _, _ := testSources()
	costs.conv = &analytics.ConversationCost{ConversationID: "c1", TenantID: "T1", TotalCostUSD: 1.25}
	store := newMockCache()
	svc := newCostService(costs, perf, store)

	got, err := svc.ConversationCost(context.Background(), "T1", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalCostUSD != 1.25 {
		t.Errorf("got %+v", got)
	}
	if store.sets != 0 {
		t.Error("conversation costs must not be cached")
	}
}

func TestConversationCostValidation(t *testing.T) {
	svc := newCostService(&mockCostSource{}, &mockPerfSource{}, newMockCache())

	if _, err := svc.ConversationCost(context.Background(), "", "c1"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing tenant: error = %v, want ErrValidation", err)
	}
	if _, err := svc.ConversationCost(context.Background(), "T1", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing conversation: error = %v, want ErrValidation", err)
	}
}
