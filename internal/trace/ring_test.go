package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestRingTracerWrapsAround(t *testing.T) {
	tr := NewRingTracer(3, LevelDebug)

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		tr.Emit(Point(ScopeFile, name, ""))
	}

	snap := tr.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events after wrap, got %d", len(snap))
	}
	got := []string{snap[0].Name, snap[1].Name, snap[2].Name}
	want := []string{"c", "d", "e"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected event order: got %v, want %v", got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	tr := NewRingTracer(16, LevelFlow)

	tr.Emit(Point(ScopeWorkspace, "open", ""))
	tr.Emit(Point(ScopeWire, "message", ""))
	tr.Emit(Drop(ScopeWire, "unknown-key", "ghost.js"))

	snap := tr.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 events (workspace point + wire drop), got %d", len(snap))
	}
	if snap[1].Kind != KindDrop {
		t.Fatalf("expected drop event to pass the filter, got %v", snap[1].Kind)
	}
}

func TestStreamTracerWritesText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)

	tr.Emit(Point(ScopeFile, "submit", "a.js"))
	if err := tr.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "file/submit") || !strings.Contains(out, "a.js") {
		t.Fatalf("unexpected trace output: %q", out)
	}
}
