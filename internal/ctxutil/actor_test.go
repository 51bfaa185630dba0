package ctxutil

import (
	"context"
	"testing"
)

func TestActorRoundTrip(t *testing.T) {
	if got := ActorFromContext(context.Background()); got != "" {
		t.Errorf("expected empty actor, got %q", got)
	}

	ctx := WithActorID(context.Background(), "dispatcher")
	if got := ActorFromContext(ctx); got != "dispatcher" {
		t.Errorf("expected dispatcher, got %q", got)
	}

	// inner value wins
	ctx = WithActorID(ctx, "planner")
	if got := ActorFromContext(ctx); got != "planner" {
		t.Errorf("expected planner, got %q", got)
	}
}
