package auth

import "context"

// Identity is the narrow view of the signed-in user that the rest of the
// code depends on. The concrete provider is injected.
type Identity interface {
	CurrentUserID() (string, bool)
	IDToken() (string, bool)
}

// Anonymous is the identity of a caller that presented no token.
type Anonymous struct{}

func (Anonymous) CurrentUserID() (string, bool) { return "", false }
func (Anonymous) IDToken() (string, bool)       { return "", false }

// TokenIdentity is an identity backed by a verified bearer token.
type TokenIdentity struct {
	UserID string
	Email  string
	Token  string
}

func (t TokenIdentity) CurrentUserID() (string, bool) {
	return t.UserID, t.UserID != ""
}

func (t TokenIdentity) IDToken() (string, bool) {
	return t.Token, t.Token != ""
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored in ctx, or Anonymous.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(ctxKey{}).(Identity); ok && id != nil {
		return id
	}
	return Anonymous{}
}
