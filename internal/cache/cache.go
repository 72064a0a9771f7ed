// Package cache holds the authoritative in-process mirror of one care-backend
// collection per resource type. The mirror is best effort: it is patched only
// after the backend confirms a mutation, and a full reload wins over whatever
// was there before. There is no cross-resource transaction.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/capitalcare/care-console/internal/api/metrics"
	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

// staleAfter bounds how long a loaded mirror is served without refetching.
const staleAfter = 30 * time.Second

// Cache mediates all CRUD for one resource collection.
type Cache[T any] struct {
	name    string
	backend ports.ResourceBackend[T]
	id      func(T) int64
	log     zerolog.Logger

	mu         sync.Mutex
	items      []T
	loaded     bool
	loadErr    error
	fetchedAt  time.Time
	generation uint64
}

// New builds a cache over backend. id extracts an entity's key.
func New[T any](name string, backend ports.ResourceBackend[T], id func(T) int64, log zerolog.Logger) *Cache[T] {
	return &Cache[T]{name: name, backend: backend, id: id, log: log}
}

// Load refetches the full collection. Concurrent loads are allowed and race;
// a generation counter makes sure a response that finishes after a newer load
// began is dropped instead of clobbering fresher state.
//
// A shape mismatch is absorbed: the mirror becomes empty, the load-error flag
// is set, and no error propagates. Every other failure also empties the
// mirror and sets the flag, but is returned to the caller and does NOT mark
// the mirror loaded, so the next read retries instead of serving the empty
// collection forever.
func (c *Cache[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	items, err := c.backend.FetchAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		metrics.CacheRefreshTotal.WithLabelValues(c.name, "stale").Inc()
		return nil
	}
	if err != nil {
		c.items = nil
		c.loadErr = err
		if errors.Is(err, domain.ErrShapeMismatch) {
			c.loaded = true
			c.fetchedAt = time.Now()
			metrics.CacheRefreshTotal.WithLabelValues(c.name, "shape_mismatch").Inc()
			c.log.Warn().Str("resource", c.name).Err(err).Msg("collection shape not recognised, serving empty list")
			return nil
		}
		c.loaded = false
		metrics.CacheRefreshTotal.WithLabelValues(c.name, "error").Inc()
		return err
	}
	c.items = items
	c.loaded = true
	c.loadErr = nil
	c.fetchedAt = time.Now()
	metrics.CacheRefreshTotal.WithLabelValues(c.name, "ok").Inc()
	return nil
}

// List returns a copy of the mirrored collection, fetching it first when it
// has never loaded successfully or the last load is older than staleAfter.
func (c *Cache[T]) List(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	fresh := c.loaded && time.Since(c.fetchedAt) < staleAfter
	c.mu.Unlock()

	if !fresh {
		if err := c.Load(ctx); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out, nil
}

// Get returns the mirrored entity with the given id.
func (c *Cache[T]) Get(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if c.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// LoadErr reports the sticky load-error state from the most recent load.
func (c *Cache[T]) LoadErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Create sends the entity to the backend and mirrors it only once confirmed.
// On failure the local collection is untouched and the error propagates.
func (c *Cache[T]) Create(ctx context.Context, entity T) (T, error) {
	created, err := c.backend.Create(ctx, entity)
	if err != nil {
		var zero T
		return zero, err
	}
	c.mu.Lock()
	c.items = append(c.items, created)
	c.mu.Unlock()
	return created, nil
}

// Update sends the change to the backend, then patches the mirror with the
// confirmed entity.
func (c *Cache[T]) Update(ctx context.Context, id int64, entity T) (T, error) {
	updated, err := c.backend.Update(ctx, id, entity)
	if err != nil {
		var zero T
		return zero, err
	}
	c.mu.Lock()
	replaced := false
	for i, item := range c.items {
		if c.id(item) == id {
			c.items[i] = updated
			replaced = true
			break
		}
	}
	if !replaced {
		c.items = append(c.items, updated)
	}
	c.mu.Unlock()
	return updated, nil
}

// Remove deletes the entity at the backend, then drops it from the mirror.
func (c *Cache[T]) Remove(ctx context.Context, id int64) error {
	if err := c.backend.Delete(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	kept := c.items[:0]
	for _, item := range c.items {
		if c.id(item) != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.mu.Unlock()
	return nil
}

// Apply replaces the mirrored entity with one already confirmed by the
// backend through a side channel (comments, status flips).
func (c *Cache[T]) Apply(entity T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if c.id(item) == c.id(entity) {
			c.items[i] = entity
			return
		}
	}
	c.items = append(c.items, entity)
}

// Reset forgets everything, including in-flight loads, which will be dropped
// as stale when they land.
func (c *Cache[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.items = nil
	c.loaded = false
	c.loadErr = nil
	c.fetchedAt = time.Time{}
}
