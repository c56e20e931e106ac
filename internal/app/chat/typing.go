/*
Package chat contains the core logic of the messaging relay.

This file defines the TypingTracker, the per-identity set of active typing
targets. A target is either the public room or a specific recipient identity
id. Like the Registry, the tracker is mutated only from the Hub goroutine.
*/
package chat

import (
	"sort"
)

// TypingTracker records which targets each identity is currently typing to.
type TypingTracker struct {
	// targets maps identity id to its set of active typing targets.
	// An entry is removed entirely once its set becomes empty.
	targets map[string]map[string]struct{}
}

// NewTypingTracker constructs an empty TypingTracker.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{
		targets: make(map[string]map[string]struct{}),
	}
}

// Start idempotently adds the target to the identity's typing set.
func (t *TypingTracker) Start(identityID, target string) {
	set, ok := t.targets[identityID]
	if !ok {
		set = make(map[string]struct{})
		t.targets[identityID] = set
	}

	set[target] = struct{}{}
}

// Stop removes the target from the identity's typing set. When the set
// becomes empty the identity's entry is removed entirely.
func (t *TypingTracker) Stop(identityID, target string) {
	set, ok := t.targets[identityID]
	if !ok {
		return
	}

	delete(set, target)

	if len(set) == 0 {
		delete(t.targets, identityID)
	}
}

// Drop removes the identity's entire typing entry. Used on disconnect; no
// typing-stop notifications are emitted, peers learn liveness from the next
// presence broadcast.
func (t *TypingTracker) Drop(identityID string) {
	delete(t.targets, identityID)
}

// IsTyping reports whether the identity currently has the target in its set.
func (t *TypingTracker) IsTyping(identityID, target string) bool {
	_, ok := t.targets[identityID][target]
	return ok
}

// HasEntry reports whether the identity has any active typing targets.
func (t *TypingTracker) HasEntry(identityID string) bool {
	_, ok := t.targets[identityID]
	return ok
}

// ActiveTargets returns the identity's typing targets, sorted.
func (t *TypingTracker) ActiveTargets(identityID string) []string {
	set, ok := t.targets[identityID]
	if !ok {
		return nil
	}

	out := make([]string, 0, len(set))
	for target := range set {
		out = append(out, target)
	}

	sort.Strings(out)

	return out
}
