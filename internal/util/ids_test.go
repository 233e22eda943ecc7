package util

import (
	"strings"
	"testing"
)

func TestNewID_NonEmptyAndUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("expected non-empty id")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestNewCorrelationID_Prefix(t *testing.T) {
	id := NewCorrelationID()
	if !strings.HasPrefix(id, "corr_") {
		t.Fatalf("expected corr_ prefix, got %s", id)
	}
}
