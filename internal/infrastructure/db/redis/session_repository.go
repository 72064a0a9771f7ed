package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/capitalcare/care-console/internal/core/domain"
)

// SessionRepository is the durable session storage: one JSON blob per session
// under session:<id>, expiring with the console token. Writes and deletes are
// whole-blob, so token and user can never be persisted separately.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, sess *domain.Session) error {
	blob, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(sess.ID), blob, r.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Find loads and decodes a stored session. A blob that no longer parses is
// deleted and reported as not found; a corrupt entry must read as logged out,
// never break login-state resolution.
func (r *SessionRepository) Find(ctx context.Context, sid string) (*domain.Session, error) {
	blob, err := r.client.Get(ctx, r.key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(blob, &sess); err != nil {
		_ = r.client.Del(ctx, r.key(sid)).Err()
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sid string) error {
	n, err := r.client.Del(ctx, r.key(sid)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) key(sid string) string {
	return "session:" + sid
}
