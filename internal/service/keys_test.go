package service

import (
	"testing"
	"time"

	"github.com/prismgate/analytics/internal/domain/analytics"
)

func TestCacheKeyFormat(t *testing.T) {
	r := analytics.DateRange{
		Start: time.Date(2026, 3, 8, 9, 30, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
	}

	got := CacheKey(resultTypeStats, "T1", analytics.PeriodLast7d, r, "")
	want := "tenant_stats:T1:last_7d:2026-03-08:2026-03-15"
	if got != want {
		t.Errorf("key = %q, want %q", got, want)
	}

	got = CacheKey(resultTypeCosts, "T1", analytics.PeriodLast7d, r, "p=openai;m=")
	want = "cost_analytics:T1:last_7d:2026-03-08:2026-03-15:p=openai;m="
	if got != want {
		t.Errorf("key with fingerprint = %q, want %q", got, want)
	}
}

func TestCacheKeyStableWithinDay(t *testing.T) {
	// Two requests minutes apart on the same day must produce the same key,
	// so a rolling window does not defeat the cache.
	base := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	r1 := analytics.DateRange{Start: base.AddDate(0, 0, -7), End: base}
	r2 := analytics.DateRange{Start: r1.Start.Add(10 * time.Minute), End: base.Add(10 * time.Minute)}

	k1 := CacheKey(resultTypeStats, "T1", analytics.PeriodLast7d, r1, "")
	k2 := CacheKey(resultTypeStats, "T1", analytics.PeriodLast7d, r2, "")
	if k1 != k2 {
		t.Errorf("same-day keys differ: %q vs %q", k1, k2)
	}
}

func TestQuotaCacheKey(t *testing.T) {
	if got := QuotaCacheKey("T1"); got != "quota_status:T1" {
		t.Errorf("key = %q", got)
	}
}
