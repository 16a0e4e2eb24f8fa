package memory

import (
	"context"
	"testing"

	"online-judge/internal/domain"
)

func TestSessionTrackerLifecycle(t *testing.T) {
	ctx := context.Background()
	tracker := NewSessionTracker()

	_ = tracker.Start(ctx, domain.User{ID: "u1", Username: "alice"})
	_ = tracker.Start(ctx, domain.User{ID: "u2", Username: "alice"})
	if n, _ := tracker.Active(ctx); n != 2 {
		t.Fatalf("expected 2 active sessions, got %d", n)
	}
	if !tracker.IsActive("u1") {
		t.Fatalf("expected u1 active")
	}

	_ = tracker.End(ctx, "u1")
	if tracker.IsActive("u1") {
		t.Fatalf("expected u1 logged out")
	}
	if n, _ := tracker.Active(ctx); n != 1 {
		t.Fatalf("expected 1 active session, got %d", n)
	}
}
