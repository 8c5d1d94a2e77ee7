package shared

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	for _, prefix := range []string{"sess_", ""} {
		t.Run("prefix_"+prefix, func(t *testing.T) {
			id := NewID(prefix)
			if !strings.HasPrefix(id, prefix) {
				t.Errorf("expected ID to start with '%s', got '%s'", prefix, id)
			}
			if len(id) != len(prefix)+32 {
				t.Errorf("expected length %d, got %d", len(prefix)+32, len(id))
			}
		})
	}

	if NewID("test_") == NewID("test_") {
		t.Error("expected unique IDs, got duplicates")
	}
}
