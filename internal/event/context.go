package event

import (
	"context"

	"techradar-api/internal/model"
)

type actorKey struct{}

// WithActor attaches the acting identity so services can stamp the events
// they publish without threading it through every signature.
func WithActor(ctx context.Context, actor model.AuditActor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFrom(ctx context.Context) model.AuditActor {
	actor, _ := ctx.Value(actorKey{}).(model.AuditActor)
	return actor
}
