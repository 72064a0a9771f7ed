package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

// ActivityService records who did what in the console. Writes are best
// effort: the user action that triggered an entry never fails because the
// trail could not be written.
type ActivityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) *ActivityService {
	return &ActivityService{repo: repo, log: log}
}

// Record writes one trail entry, attributing it to the session on ctx.
func (s *ActivityService) Record(ctx context.Context, action, resource string, resourceID int64) {
	actor, role := "anonymous", ""
	if sess, ok := domain.SessionFromContext(ctx); ok {
		actor = sess.User.Email
		if actor == "" {
			actor = sess.User.Name
		}
		role = sess.User.Role
	}

	entry := domain.ActivityEntry{
		ID:         uuid.NewString(),
		Actor:      actor,
		Role:       role,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		At:         time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.log.Error().Err(err).
			Str("action", action).
			Str("resource", resource).
			Msg("activity write failed")
	}
}

// Recent returns the newest entries, clamping limit to a sane range.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return s.repo.Recent(ctx, limit)
}
