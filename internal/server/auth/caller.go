// Package auth issues and validates access tokens and carries the calling
// identity through request contexts.
package auth

import (
	"context"
	"slices"
)

// Caller is the identity a request runs as. The zero value is an anonymous
// caller.
type Caller struct {
	ID            int64
	Authenticated bool
	Scopes        []string
}

func (c Caller) HasScope(scope string) bool {
	return c.Authenticated && slices.Contains(c.Scopes, scope)
}

// IsModerator reports whether c may act on content it does not own.
func (c Caller) IsModerator() bool {
	return c.HasScope(ScopeMod)
}

// Owns reports whether c is the authenticated user with the given id.
func (c Caller) Owns(userID int64) bool {
	return c.Authenticated && c.ID == userID
}

type callerKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// FromContext returns the caller stored in ctx, or an anonymous caller.
func FromContext(ctx context.Context) Caller {
	c, _ := ctx.Value(callerKey{}).(Caller)
	return c
}
