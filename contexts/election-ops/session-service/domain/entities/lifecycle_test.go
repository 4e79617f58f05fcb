package entities

import (
	"testing"
	"time"
)

func TestLifecycleMarksAreMonotonic(t *testing.T) {
	var marks LifecycleMarks
	first := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	if !marks.Set(TransitionScheduled, first) {
		t.Fatalf("expected first set to succeed")
	}
	if marks.Set(TransitionScheduled, first.Add(time.Hour)) {
		t.Fatalf("expected overwrite of a set mark to be rejected")
	}
	if got := marks.At(TransitionScheduled); got == nil || !got.Equal(first) {
		t.Fatalf("expected original instant to survive, got %v", got)
	}
}

func TestLifecycleMarksAreIndependent(t *testing.T) {
	var marks LifecycleMarks
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	// A force-ended session can fire "ended" without ever firing "started".
	if !marks.Set(TransitionEnded, at) {
		t.Fatalf("expected ended set to succeed")
	}
	if marks.At(TransitionStarted) != nil {
		t.Fatalf("setting one mark must not touch the others")
	}
	if !marks.Set(TransitionResults, at.Add(time.Hour)) {
		t.Fatalf("expected results set to succeed")
	}
}

func TestLifecycleMarksUnknownTransition(t *testing.T) {
	var marks LifecycleMarks
	if marks.Set(LifecycleTransition("archived"), time.Now()) {
		t.Fatalf("expected unknown transition to be rejected")
	}
	if marks.At(LifecycleTransition("archived")) != nil {
		t.Fatalf("expected nil for unknown transition")
	}
}
