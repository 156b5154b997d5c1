package identity_test

import (
	"context"
	"testing"

	"github.com/alwitt/fleetledger/identity"
	"github.com/stretchr/testify/assert"
)

func TestIdentityProviders(t *testing.T) {
	assert := assert.New(t)

	utCtx := context.Background()

	// Context backed
	{
		uut := identity.FromContext()
		assert.False(uut.IsAuthenticated(utCtx))
		assert.Equal(identity.Anonymous, identity.ActorOrAnonymous(utCtx, uut))

		ctx := identity.WithActor(utCtx, " alice@example.com ")
		assert.True(uut.IsAuthenticated(ctx))
		actor, ok := uut.CurrentActor(ctx)
		assert.True(ok)
		assert.Equal("alice@example.com", actor)
		assert.Equal("alice@example.com", identity.ActorOrAnonymous(ctx, uut))

		assert.False(uut.IsAuthenticated(identity.WithActor(utCtx, "  ")))
	}

	// Static
	{
		uut := identity.Static("bob@example.com")
		assert.True(uut.IsAuthenticated(utCtx))
		assert.Equal("bob@example.com", identity.ActorOrAnonymous(utCtx, uut))

		uut = identity.Static("")
		assert.False(uut.IsAuthenticated(utCtx))
		assert.Equal(identity.Anonymous, identity.ActorOrAnonymous(utCtx, uut))
	}

	assert.Equal(identity.Anonymous, identity.ActorOrAnonymous(utCtx, nil))
}
