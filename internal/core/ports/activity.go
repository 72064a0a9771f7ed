package ports

import (
	"context"

	"github.com/capitalcare/care-console/internal/core/domain"
)

// ActivityRepository persists the admin activity trail.
type ActivityRepository interface {
	Insert(ctx context.Context, entry domain.ActivityEntry) error
	Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error)
}

// ActivityRecorder is the write-side façade used by handlers. Recording is
// best effort: a failed write is logged, never propagated to the user action
// that triggered it.
type ActivityRecorder interface {
	Record(ctx context.Context, action, resource string, resourceID int64)
	Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error)
}

// SiteLinkRepository stores the map's connection overlay. Links are owned by
// the console, not the care backend; they live in the console's durable
// key-value storage.
type SiteLinkRepository interface {
	List(ctx context.Context) ([]domain.SiteLink, error)
	Add(ctx context.Context, from, to int64) (domain.SiteLink, error)
	Remove(ctx context.Context, from, to int64) error
}
