package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorContext(t *testing.T) {
	_, ok := ActorFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithActor(context.Background(), Actor{UserID: 4, OrgID: 2, ClientIP: "10.0.0.1"})
	actor, ok := ActorFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(4), actor.UserID)
	assert.Equal(t, "10.0.0.1", actor.ClientIP)

	var l Logger = &NoOpLogger{}
	assert.NoError(t, l.LogAction(ctx, Entry{Action: "create"}))
}
