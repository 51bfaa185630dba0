// Package ctxutil carries request-scoped values that every layer may read.
// It has no internal dependencies so adapters and services can share it.
package ctxutil

import "context"

type actorKey struct{}

// WithActorID returns a context naming who performed the operation: the CLI
// --actor value or the X-Actor header of an API call.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFromContext returns the actor ID from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
