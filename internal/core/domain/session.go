package domain

import (
	"context"
	"time"
)

// Session is the authenticated identity of one console user. It pairs the
// upstream bearer token with the user it was issued for; the two are persisted
// as a single blob so one can never outlive the other.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the session is structurally usable: a token and a
// recognised role must both be present. Stored blobs that fail this check are
// treated as logged out, never as an error.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && KnownRole(s.User.Role)
}

type ctxKey struct{}

// NewContext returns ctx carrying the session of the current request.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFromContext extracts the session injected by the auth middleware.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// TokenFromContext returns the upstream bearer token for the current request,
// or "" when the request is unauthenticated.
func TokenFromContext(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok {
		return s.Token
	}
	return ""
}
