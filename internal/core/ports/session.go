package ports

import (
	"context"

	"github.com/capitalcare/care-console/internal/core/domain"
)

// Credentials are the login form fields forwarded to the care backend.
type Credentials struct {
	Email    string
	Password string
}

// SessionStore is the single writer of session state. The upstream client
// only ever calls Invalidate; nothing else may touch token or user.
type SessionStore interface {
	// Login authenticates against the care backend and, on success, creates
	// and persists a session atomically. It returns the signed console token
	// handed to the browser alongside the session itself.
	Login(ctx context.Context, creds Credentials) (string, *domain.Session, error)

	// Logout destroys the session unconditionally. Idempotent.
	Logout(ctx context.Context, sid string) error

	// Resolve rehydrates the session for sid from durable storage. A missing,
	// corrupt, or structurally invalid blob yields ErrSessionNotFound.
	Resolve(ctx context.Context, sid string) (*domain.Session, error)

	// Invalidate is the upstream 401 hook. The session is cleared at most
	// once, no matter how many concurrent requests observe the 401.
	Invalidate(ctx context.Context, sid string) error
}

// SessionRepository is the durable key-value storage behind the store: one
// blob per session, written and deleted whole.
type SessionRepository interface {
	Save(ctx context.Context, sess *domain.Session) error
	Find(ctx context.Context, sid string) (*domain.Session, error)
	Delete(ctx context.Context, sid string) error
}
