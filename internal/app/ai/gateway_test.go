package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// stubCompleter records calls and returns a canned reply or error.
type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestConsumeQuota(t *testing.T) {
	g := NewGateway(&stubCompleter{reply: "ok"}, 4, 64)

	for i := 0; i < 4; i++ {
		if !g.Consume("user-aaaa0000") {
			t.Fatalf("Consume() call %d = false, want true", i+1)
		}
	}

	if g.Consume("user-aaaa0000") {
		t.Error("Consume() after limit = true, want false")
	}

	// terminal: exhaustion persists
	if g.Consume("user-aaaa0000") {
		t.Error("Consume() remains exhausted, got true")
	}

	if got := g.Remaining("user-aaaa0000"); got != 0 {
		t.Errorf("Remaining() = %d, want 0", got)
	}
}

func TestConsumeIsPerIdentity(t *testing.T) {
	g := NewGateway(&stubCompleter{reply: "ok"}, 1, 64)

	if !g.Consume("user-aaaa0000") {
		t.Fatal("first identity should have quota")
	}
	if g.Consume("user-aaaa0000") {
		t.Error("first identity should be exhausted")
	}
	if !g.Consume("user-bbbb1111") {
		t.Error("second identity should have its own quota")
	}
}

func TestCompleteDelegates(t *testing.T) {
	stub := &stubCompleter{reply: "the answer"}
	g := NewGateway(stub, 4, 64)

	reply, err := g.Complete(context.Background(), "the question")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != "the answer" {
		t.Errorf("Complete() = %q, want %q", reply, "the answer")
	}
	if stub.calls != 1 {
		t.Errorf("completer calls = %d, want 1", stub.calls)
	}
}

func TestFailureDoesNotRefundQuota(t *testing.T) {
	stub := &stubCompleter{err: fmt.Errorf("service unavailable")}
	g := NewGateway(stub, 2, 64)

	if !g.Consume("user-cccc2222") {
		t.Fatal("Consume() = false, want true")
	}

	if _, err := g.Complete(context.Background(), "q"); err == nil {
		t.Fatal("Complete() should propagate completer failure")
	} else if !errors.Is(err, stub.err) {
		t.Errorf("Complete() error = %v, want wrapped %v", err, stub.err)
	}

	// the slot stays consumed after the failure
	if got := g.Remaining("user-cccc2222"); got != 1 {
		t.Errorf("Remaining() after failed call = %d, want 1", got)
	}
}

func TestRemaining(t *testing.T) {
	g := NewGateway(&stubCompleter{reply: "ok"}, 3, 64)

	if got := g.Remaining("user-dddd3333"); got != 3 {
		t.Errorf("Remaining() before use = %d, want 3", got)
	}

	g.Consume("user-dddd3333")

	if got := g.Remaining("user-dddd3333"); got != 2 {
		t.Errorf("Remaining() after one use = %d, want 2", got)
	}
}
