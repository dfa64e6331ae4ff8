package tiered_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prismgate/analytics/internal/adapter/tiered"
)

type memCache struct {
	data   map[string][]byte
	getErr error
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestTieredL1Hit(t *testing.T) {
	l1, l2 := newMemCache(), newMemCache()
	c := tiered.New(l1, l2, time.Minute)

	l1.data["quota_status:T1"] = []byte("v1")

	val, found, err := c.Get(context.Background(), "quota_status:T1")
	if err != nil {
		t.Fatal(err)
	}
	if !found || string(val) != "v1" {
		t.Fatalf("found=%v val=%s", found, val)
	}
}

func TestTieredL2HitBackfillsL1(t *testing.T) {
	l1, l2 := newMemCache(), newMemCache()
	c := tiered.New(l1, l2, time.Minute)

	l2.data["tenant_stats:T1:last_7d:a:b"] = []byte("remote")

	val, found, err := c.Get(context.Background(), "tenant_stats:T1:last_7d:a:b")
	if err != nil {
		t.Fatal(err)
	}
	if !found || string(val) != "remote" {
		t.Fatalf("found=%v val=%s", found, val)
	}
	if string(l1.data["tenant_stats:T1:last_7d:a:b"]) != "remote" {
		t.Error("L2 hit must backfill L1")
	}
}

func TestTieredMiss(t *testing.T) {
	c := tiered.New(newMemCache(), newMemCache(), time.Minute)

	_, found, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected miss")
	}
}

func TestTieredSetWritesBoth(t *testing.T) {
	l1, l2 := newMemCache(), newMemCache()
	c := tiered.New(l1, l2, time.Minute)

	if err := c.Set(context.Background(), "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if string(l1.data["k"]) != "v" || string(l2.data["k"]) != "v" {
		t.Error("Set must reach both levels")
	}
}

func TestTieredDeleteClearsBoth(t *testing.T) {
	l1, l2 := newMemCache(), newMemCache()
	c := tiered.New(l1, l2, time.Minute)

	l1.data["k"] = []byte("v")
	l2.data["k"] = []byte("v")

	if err := c.Delete(context.Background(), "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok := l1.data["k"]; ok {
		t.Error("L1 entry survived delete")
	}
	if _, ok := l2.data["k"]; ok {
		t.Error("L2 entry survived delete, invalidation would resurrect")
	}
}

func TestTieredL2ErrorPropagates(t *testing.T) {
	l1, l2 := newMemCache(), newMemCache()
	l2.getErr = errors.New("remote down")
	c := tiered.New(l1, l2, time.Minute)

	_, _, err := c.Get(context.Background(), "k")
	if err == nil {
		t.Fatal("L2 failure must surface so the orchestrator can degrade to compute")
	}
}
