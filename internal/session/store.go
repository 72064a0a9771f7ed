// Package session owns "who is logged in". The Store is the single writer of
// session state: login and logout are the only state transitions, rehydration
// happens through Resolve, and the upstream client's 401 hook goes through
// Invalidate and nowhere else.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/capitalcare/care-console/internal/api/metrics"
	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

// invalidatedTTL bounds how long a session ID is remembered after a forced
// invalidation, so concurrent 401s for the same session collapse to one clear.
const invalidatedTTL = time.Minute

// Store implements ports.SessionStore over a durable repository and the care
// backend's auth API.
type Store struct {
	repo   ports.SessionRepository
	auth   ports.AuthAPI
	tokens *TokenIssuer
	log    zerolog.Logger

	mu          sync.Mutex
	invalidated map[string]time.Time
}

func NewStore(repo ports.SessionRepository, auth ports.AuthAPI, tokens *TokenIssuer, log zerolog.Logger) *Store {
	return &Store{
		repo:        repo,
		auth:        auth,
		tokens:      tokens,
		log:         log,
		invalidated: make(map[string]time.Time),
	}
}

// Login authenticates against the care backend and creates the session. The
// token and user are persisted as one blob, so a failure at any step leaves
// no partial state behind.
func (s *Store) Login(ctx context.Context, creds ports.Credentials) (string, *domain.Session, error) {
	if creds.Email == "" || creds.Password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	result, err := s.auth.Login(ctx, creds)
	if err != nil {
		// A 401 on the login endpoint is a rejected credential pair, not a
		// dead session; there is no session to invalidate yet.
		if errors.Is(err, domain.ErrUnauthorized) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, err
	}
	if !domain.KnownRole(result.User.Role) {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("login: backend returned unknown role %q", result.User.Role)
	}

	sess := &domain.Session{
		ID:        uuid.NewString(),
		Token:     result.Token,
		User:      result.User,
		CreatedAt: time.Now().UTC(),
	}

	consoleToken, err := s.tokens.Issue(sess.ID, sess.User.Role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("issue console token: %w", err)
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("persist session: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.SessionsActive.Inc()
	s.log.Info().
		Str("session_id", sess.ID).
		Str("role", sess.User.Role).
		Msg("session created")
	return consoleToken, sess, nil
}

// Logout destroys the session. Logging out an already-absent session is a
// no-op, not an error.
func (s *Store) Logout(ctx context.Context, sid string) error {
	err := s.repo.Delete(ctx, sid)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	metrics.SessionsActive.Dec()
	s.log.Info().Str("session_id", sid).Msg("session destroyed")
	return nil
}

// Resolve rehydrates the session for sid. Structurally broken blobs (missing
// role or token) are purged and reported as not found rather than crashing
// the navigation that tripped over them.
func (s *Store) Resolve(ctx context.Context, sid string) (*domain.Session, error) {
	sess, err := s.repo.Find(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !sess.Valid() {
		s.log.Warn().Str("session_id", sid).Msg("purging structurally invalid session")
		_ = s.repo.Delete(ctx, sid)
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Invalidate clears the session after an upstream 401. Concurrent 401s for
// the same session produce exactly one storage delete; the rest are no-ops.
func (s *Store) Invalidate(ctx context.Context, sid string) error {
	s.mu.Lock()
	if _, seen := s.invalidated[sid]; seen {
		s.mu.Unlock()
		return nil
	}
	now := time.Now()
	for id, at := range s.invalidated {
		if now.Sub(at) > invalidatedTTL {
			delete(s.invalidated, id)
		}
	}
	s.invalidated[sid] = now
	s.mu.Unlock()

	err := s.repo.Delete(ctx, sid)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	metrics.SessionsActive.Dec()
	metrics.SessionsInvalidatedTotal.Inc()
	s.log.Warn().Str("session_id", sid).Msg("session invalidated by upstream 401")
	return nil
}
