package audit

import (
	"context"
)

// Entry describes one mutation inside an organization
type Entry struct {
	OrgID      uint
	Action     string
	EntityType string
	EntityID   uint
	Details    map[string]interface{}
}

// Logger defines the interface for auditing tenant mutations
type Logger interface {
	// LogAction records a create, update, delete or import
	LogAction(ctx context.Context, entry Entry) error
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

// LogAction implements Logger.LogAction
func (l *NoOpLogger) LogAction(ctx context.Context, entry Entry) error {
	return nil
}

// Actor identifies who performed a request
type Actor struct {
	UserID   uint
	OrgID    uint
	ClientIP string
}

type actorKey struct{}

// WithActor returns a copy of ctx carrying actor
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor, if any
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}
