package quota

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want Status
	}{
		{"zero", 0, StatusSafe},
		{"just below warning", 79.9, StatusSafe},
		{"exactly warning", 80, StatusWarning},
		{"between warning and critical", 90, StatusWarning},
		{"exactly critical", 95, StatusCritical},
		{"just below exceeded", 99.9, StatusCritical},
		{"exactly 100", 100, StatusExceeded},
		{"over 100", 131.5, StatusExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.pct, 80, 95); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.pct, got, tt.want)
			}
		})
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	if got := Classify(50, 50, 75); got != StatusWarning {
		t.Errorf("got %q, want warning at custom threshold", got)
	}
	if got := Classify(74.9, 50, 75); got != StatusWarning {
		t.Errorf("got %q, want warning below custom critical", got)
	}
	if got := Classify(75, 50, 75); got != StatusCritical {
		t.Errorf("got %q, want critical at custom threshold", got)
	}
}

func TestNextDailyReset(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	now := time.Date(2026, 3, 15, 23, 30, 0, 0, loc)

	got := NextDailyReset(now)
	want := time.Date(2026, 3, 16, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("NextDailyReset = %v, want %v", got, want)
	}
}

func TestNextMonthlyReset(t *testing.T) {
	now := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)

	got := NextMonthlyReset(now)
	want := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextMonthlyReset = %v, want %v (year rollover)", got, want)
	}

	now = time.Date(2026, 3, 1, 0, 0, 1, 0, time.UTC)
	got = NextMonthlyReset(now)
	want = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextMonthlyReset = %v, want %v", got, want)
	}
}
