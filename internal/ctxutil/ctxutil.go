package ctxutil

import (
	"context"
	"time"
)

type key int

const (
	keyActorID key = iota
	keyActorRole
)

// WithActor stamps the authenticated caller (directory id + role) onto the
// request context for handlers further down the chain.
func WithActor(ctx context.Context, id, role string) context.Context {
	ctx = context.WithValue(ctx, keyActorID, id)
	return context.WithValue(ctx, keyActorRole, role)
}

func ActorID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(keyActorID).(string)
	return id, ok
}

func ActorRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(keyActorRole).(string)
	return role, ok
}

// WithTimeout mirrors context.WithTimeout but tolerates a zero duration,
// which means "no deadline".
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
