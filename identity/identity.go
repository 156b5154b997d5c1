// Package identity - caller identity boundary
package identity

import (
	"context"
	"strings"
)

// Anonymous actor recorded when a write happens without a session
const Anonymous = "anonymous"

// Provider reports who the caller is
type Provider interface {
	/*
		CurrentActor the caller's identifier, e.g. an email

			@param ctx context.Context - execution context
			@returns the actor, and whether a session is present
	*/
	CurrentActor(ctx context.Context) (string, bool)

	// IsAuthenticated whether a session is present
	IsAuthenticated(ctx context.Context) bool
}

type actorContextKey struct{}

// WithActor attach the caller's identifier to the context
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorContextKey{}, strings.TrimSpace(actor))
}

// contextProvider reads the caller's identifier from the context
type contextProvider struct{}

// FromContext provider which reads the actor attached with WithActor
func FromContext() Provider {
	return contextProvider{}
}

func (contextProvider) CurrentActor(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(actorContextKey{}).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

func (p contextProvider) IsAuthenticated(ctx context.Context) bool {
	_, ok := p.CurrentActor(ctx)
	return ok
}

// staticProvider always reports the same actor
type staticProvider struct {
	actor string
}

// Static provider which always reports the same actor. An empty actor means no session.
func Static(actor string) Provider {
	return staticProvider{actor: strings.TrimSpace(actor)}
}

func (p staticProvider) CurrentActor(_ context.Context) (string, bool) {
	return p.actor, p.actor != ""
}

func (p staticProvider) IsAuthenticated(ctx context.Context) bool {
	_, ok := p.CurrentActor(ctx)
	return ok
}

/*
ActorOrAnonymous the actor to attribute a write to

	@param ctx context.Context - execution context
	@param provider Provider - identity provider. May be nil.
	@returns the current actor, or Anonymous when there is no session
*/
func ActorOrAnonymous(ctx context.Context, provider Provider) string {
	if provider == nil {
		return Anonymous
	}
	if actor, ok := provider.CurrentActor(ctx); ok {
		return actor
	}
	return Anonymous
}
