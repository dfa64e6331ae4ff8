package analytics

import "testing"

func TestFingerprintDeterministic(t *testing.T) {
	a := Filters{Providers: []string{"openai", "anthropic"}, Models: []string{"gpt-4o"}}
	b := Filters{Providers: []string{"anthropic", "openai"}, Models: []string{"gpt-4o"}}

	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("order-insensitive filters must fingerprint identically: %q vs %q",
			a.Fingerprint(), b.Fingerprint())
	}
}

func TestFingerprintEmpty(t *testing.T) {
	if got := (Filters{}).Fingerprint(); got != "" {
		t.Errorf("empty filters fingerprint = %q, want \"\"", got)
	}
}

func TestFingerprintDistinguishesLimits(t *testing.T) {
	a := Filters{Providers: []string{"openai"}, TopUsersLimit: 5}
	b := Filters{Providers: []string{"openai"}, TopUsersLimit: 10}
	c := Filters{Providers: []string{"openai"}, TopConversationsLimit: 5}

	if a.Fingerprint() == b.Fingerprint() {
		t.Error("different user limits must fingerprint differently")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("user and conversation limits must not collide")
	}
}

func TestFingerprintDoesNotMutateFilters(t *testing.T) {
	f := Filters{Providers: []string{"openai", "anthropic"}}
	f.Fingerprint()
	if f.Providers[0] != "openai" {
		t.Error("Fingerprint must not sort the caller's slice in place")
	}
}
