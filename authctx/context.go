// Package authctx propagates the authenticated identity on the request
// context. The authentication gate stores an Identity after verifying a
// bearer token; handlers retrieve it without knowing how verification works.
package authctx

import (
	"context"
	"errors"
	"time"
)

// Identity is the resolved caller attached to a request after the gate has
// verified its access token.
type Identity struct {
	// AccountID is the subject of the verified token.
	AccountID string
	// TokenID is the token's jti, for audit correlation.
	TokenID string
	// ExpiresAt is the verified token's expiry.
	ExpiresAt time.Time
}

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var identityKey = contextKey{}

// ErrNoIdentity is returned when no identity is attached to the context.
var ErrNoIdentity = errors.New("authctx: no identity in context")

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext retrieves the identity, reporting whether one was attached.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// MustFromContext retrieves the identity and panics if it is missing. Use in
// handlers that are only reachable behind the authentication gate.
func MustFromContext(ctx context.Context) Identity {
	id, ok := FromContext(ctx)
	if !ok {
		panic("authctx: identity not found in context")
	}
	return id
}

// AccountID returns the authenticated account id, or ErrNoIdentity.
func AccountID(ctx context.Context) (string, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return "", ErrNoIdentity
	}
	return id.AccountID, nil
}
