package internal

import (
	"context"
	"time"
)

// Actor is the authenticated identity a request acts as. The auth middleware
// builds it once from the token claims plus a user lookup; everything below
// the transport layer receives it by value instead of digging through the
// request object.
type Actor struct {
	UserID   int64
	TenantID int64
	Role     Role
}

type ctxKey string

const contextActorKey ctxKey = "actor"

func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextActorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(contextActorKey).(Actor)
	return actor, ok
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if
// duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
