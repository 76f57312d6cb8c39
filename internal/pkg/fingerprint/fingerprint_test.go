package fingerprint

import "testing"

func TestOf_Stable(t *testing.T) {
	if Of("token-a") != Of("token-a") {
		t.Fatal("fingerprint must be deterministic")
	}
	if len(Of("token-a")) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(Of("token-a")))
	}
}

func TestOf_PartBoundaries(t *testing.T) {
	if Of("ab", "c") == Of("a", "bc") {
		t.Fatal("different part splits must not collide")
	}
	if Of("token-a") == Of("token-b") {
		t.Fatal("different inputs must differ")
	}
}
