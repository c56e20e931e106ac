package chat

import (
	"testing"
)

func TestStartStopAreInverses(t *testing.T) {
	tracker := NewTypingTracker()

	tracker.Start("user-aaaa0000", PublicTarget)
	if !tracker.IsTyping("user-aaaa0000", PublicTarget) {
		t.Fatal("IsTyping() after Start = false")
	}

	tracker.Stop("user-aaaa0000", PublicTarget)
	if tracker.IsTyping("user-aaaa0000", PublicTarget) {
		t.Error("IsTyping() after Stop = true")
	}

	// the entry itself is gone once its set empties
	if tracker.HasEntry("user-aaaa0000") {
		t.Error("HasEntry() after last Stop = true, want entry removed")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	tracker := NewTypingTracker()

	tracker.Start("user-aaaa0000", PublicTarget)
	tracker.Start("user-aaaa0000", PublicTarget)

	if got := tracker.ActiveTargets("user-aaaa0000"); len(got) != 1 {
		t.Errorf("ActiveTargets() = %v, want single entry", got)
	}

	tracker.Stop("user-aaaa0000", PublicTarget)
	if tracker.HasEntry("user-aaaa0000") {
		t.Error("one Stop should clear a doubly-Started target")
	}
}

func TestMultipleTargets(t *testing.T) {
	tracker := NewTypingTracker()

	tracker.Start("user-aaaa0000", PublicTarget)
	tracker.Start("user-aaaa0000", "user-bbbb1111")

	got := tracker.ActiveTargets("user-aaaa0000")
	if len(got) != 2 {
		t.Fatalf("ActiveTargets() = %v, want 2 entries", got)
	}

	tracker.Stop("user-aaaa0000", PublicTarget)
	if !tracker.IsTyping("user-aaaa0000", "user-bbbb1111") {
		t.Error("stopping one target should not affect the other")
	}
	if !tracker.HasEntry("user-aaaa0000") {
		t.Error("entry should remain while any target is active")
	}
}

func TestStopUnknownTargetIsNoOp(t *testing.T) {
	tracker := NewTypingTracker()

	tracker.Stop("user-aaaa0000", PublicTarget)

	if tracker.HasEntry("user-aaaa0000") {
		t.Error("Stop on unknown identity should not create an entry")
	}
}

func TestDropClearsWholeEntry(t *testing.T) {
	tracker := NewTypingTracker()

	tracker.Start("user-aaaa0000", PublicTarget)
	tracker.Start("user-aaaa0000", "user-bbbb1111")

	tracker.Drop("user-aaaa0000")

	if tracker.HasEntry("user-aaaa0000") {
		t.Error("Drop should remove the identity's entire entry")
	}
	if got := tracker.ActiveTargets("user-aaaa0000"); got != nil {
		t.Errorf("ActiveTargets() after Drop = %v, want nil", got)
	}
}
