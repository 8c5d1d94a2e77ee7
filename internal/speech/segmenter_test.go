package speech

import (
	"io"
	"log/slog"
	"testing"
)

func newTestSegmenter() *Segmenter {
	return NewSegmenter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSegmenter_Split(t *testing.T) {
	got := newTestSegmenter().Split("Thanks for letting us know. We will check the vents in zone 4! Anything else?")
	want := []string{
		"Thanks for letting us know.",
		"We will check the vents in zone 4!",
		"Anything else?",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d segments, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSegmenter_NoTerminator(t *testing.T) {
	got := newTestSegmenter().Split("  thanks for the feedback  ")
	if len(got) != 1 || got[0] != "thanks for the feedback" {
		t.Errorf("expected single trimmed segment, got %q", got)
	}
}

func TestSegmenter_Empty(t *testing.T) {
	if got := newTestSegmenter().Split("   "); got != nil {
		t.Errorf("expected nil, got %q", got)
	}
}
