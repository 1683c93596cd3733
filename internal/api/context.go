package api

import (
	"context"

	"hourlog/internal/workflow"
)

// Actor is the authenticated caller: a stable identity plus one of the three
// portal roles. Identity and role assignment live outside this service; the
// middleware only attaches what the session token proves.
type Actor struct {
	ID   string
	Role workflow.Role
}

type ctxKey string

const ctxKeyActor ctxKey = "actor"

func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, a)
}

func ActorFromContext(ctx context.Context) *Actor {
	v := ctx.Value(ctxKeyActor)
	if v == nil {
		return nil
	}
	a, _ := v.(*Actor)
	return a
}
