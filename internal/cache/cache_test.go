package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/capitalcare/care-console/internal/core/domain"
)

type stubBackend struct {
	fetchAllFn func(ctx context.Context) ([]domain.Ticket, error)
	createFn   func(ctx context.Context, t domain.Ticket) (domain.Ticket, error)
	updateFn   func(ctx context.Context, id int64, t domain.Ticket) (domain.Ticket, error)
	deleteFn   func(ctx context.Context, id int64) error
}

func (s *stubBackend) FetchAll(ctx context.Context) ([]domain.Ticket, error) {
	return s.fetchAllFn(ctx)
}

func (s *stubBackend) Create(ctx context.Context, t domain.Ticket) (domain.Ticket, error) {
	return s.createFn(ctx, t)
}

func (s *stubBackend) Update(ctx context.Context, id int64, t domain.Ticket) (domain.Ticket, error) {
	return s.updateFn(ctx, id, t)
}

func (s *stubBackend) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func ticketID(t domain.Ticket) int64 { return t.ID }

func newTicketCache(backend *stubBackend) *Cache[domain.Ticket] {
	return New("tickets", backend, ticketID, zerolog.Nop())
}

func TestCache_ListLoadsLazily(t *testing.T) {
	fetches := 0
	backend := &stubBackend{
		fetchAllFn: func(context.Context) ([]domain.Ticket, error) {
			fetches++
			return []domain.Ticket{{ID: 1, Title: "no signal"}}, nil
		},
	}
	c := newTicketCache(backend)

	items, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != 1 {
		t.Fatalf("unexpected items: %+v", items)
	}

	if _, err := c.List(context.Background()); err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	if fetches != 1 {
		t.Fatalf("expected one backend fetch, got %d", fetches)
	}

	// Mutating the returned slice must not touch the mirror.
	items[0].Title = "scribbled"
	got, _ := c.Get(1)
	if got.Title != "no signal" {
		t.Fatalf("mirror was mutated through the returned copy")
	}
}

func TestCache_ShapeMismatchAbsorbed(t *testing.T) {
	backend := &stubBackend{
		fetchAllFn: func(context.Context) ([]domain.Ticket, error) {
			return nil, fmt.Errorf("tickets: %w", domain.ErrShapeMismatch)
		},
	}
	c := newTicketCache(backend)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("shape mismatch must not propagate, got %v", err)
	}
	items, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty mirror, got %+v", items)
	}
	if c.LoadErr() == nil {
		t.Fatalf("load-error flag must be set")
	}
}

func TestCache_FetchErrorEmptiesAndPropagates(t *testing.T) {
	backend := &stubBackend{
		fetchAllFn: func(context.Context) ([]domain.Ticket, error) {
			return []domain.Ticket{{ID: 1}}, nil
		},
	}
	c := newTicketCache(backend)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("initial load failed: %v", err)
	}

	boom := errors.New("backend down")
	backend.fetchAllFn = func(context.Context) ([]domain.Ticket, error) {
		return nil, boom
	}

	if err := c.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if _, ok := c.Get(1); ok {
		t.Fatalf("failed reload must empty the mirror")
	}
	if !errors.Is(c.LoadErr(), boom) {
		t.Fatalf("load-error flag not set, got %v", c.LoadErr())
	}
}

func TestCache_RetriesAfterFailedLoad(t *testing.T) {
	fetches := 0
	backend := &stubBackend{
		fetchAllFn: func(context.Context) ([]domain.Ticket, error) {
			fetches++
			if fetches == 1 {
				return nil, &domain.NetworkError{Err: errors.New("transient blip")}
			}
			return []domain.Ticket{{ID: 1, Title: "no signal"}}, nil
		},
	}
	c := newTicketCache(backend)

	if _, err := c.List(context.Background()); err == nil {
		t.Fatalf("expected the first list to surface the load failure")
	}

	// The backend recovered; the next read must refetch rather than keep
	// serving the empty collection.
	items, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list after recovery failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != 1 {
		t.Fatalf("expected recovered collection, got %+v", items)
	}
	if fetches != 2 {
		t.Fatalf("expected a second backend fetch, got %d", fetches)
	}
	if c.LoadErr() != nil {
		t.Fatalf("load-error flag must clear after recovery, got %v", c.LoadErr())
	}
}

func TestCache_ListRefreshesWhenStale(t *testing.T) {
	fetches := 0
	backend := &stubBackend{
		fetchAllFn: func(context.Context) ([]domain.Ticket, error) {
			fetches++
			return []domain.Ticket{{ID: int64(fetches)}}, nil
		},
	}
	c := newTicketCache(backend)

	if _, err := c.List(context.Background()); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if fetches != 1 {
		t.Fatalf("expected one fetch, got %d", fetches)
	}

	// Age the mirror past the staleness bound; the next list must refetch and
	// pick up out-of-band backend changes.
	c.mu.Lock()
	c.fetchedAt = time.Now().Add(-2 * staleAfter)
	c.mu.Unlock()

	items, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("stale list failed: %v", err)
	}
	if fetches != 2 || len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("expected refreshed collection, fetches=%d items=%+v", fetches, items)
	}
}

func TestCache_StaleLoadIsDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &stubBackend{
		fetchAllFn: func(context.Context) ([]domain.Ticket, error) {
			close(started)
			<-release
			return []domain.Ticket{{ID: 1, Title: "old"}}, nil
		},
	}
	c := newTicketCache(backend)

	done := make(chan error, 1)
	go func() { done <- c.Load(context.Background()) }()
	<-started

	// A newer load finishes while the first is still in flight.
	backend.fetchAllFn = func(context.Context) ([]domain.Ticket, error) {
		return []domain.Ticket{{ID: 2, Title: "fresh"}}, nil
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("fresh load failed: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("stale load must be dropped silently, got %v", err)
	}

	if _, ok := c.Get(1); ok {
		t.Fatalf("stale response clobbered fresher state")
	}
	if got, ok := c.Get(2); !ok || got.Title != "fresh" {
		t.Fatalf("fresh state lost: %+v ok=%v", got, ok)
	}
}

func TestCache_CreateMirrorsOnlyOnConfirm(t *testing.T) {
	backend := &stubBackend{
		fetchAllFn: func(context.Context) ([]domain.Ticket, error) {
			return []domain.Ticket{}, nil
		},
		createFn: func(_ context.Context, in domain.Ticket) (domain.Ticket, error) {
			in.ID = 10
			in.Status = domain.TicketPending
			return in, nil
		},
	}
	c := newTicketCache(backend)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	created, err := c.Create(context.Background(), domain.Ticket{Title: "slow link"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != 10 {
		t.Fatalf("mirror must hold the confirmed entity, got %+v", created)
	}
	if _, ok := c.Get(10); !ok {
		t.Fatalf("confirmed entity missing from mirror")
	}

	backend.createFn = func(_ context.Context, in domain.Ticket) (domain.Ticket, error) {
		return domain.Ticket{}, errors.New("rejected")
	}
	if _, err := c.Create(context.Background(), domain.Ticket{Title: "another"}); err == nil {
		t.Fatalf("expected create error")
	}
	items, _ := c.List(context.Background())
	if len(items) != 1 {
		t.Fatalf("failed create must leave the mirror untouched, got %+v", items)
	}
}

func TestCache_UpdateAndRemove(t *testing.T) {
	backend := &stubBackend{
		fetchAllFn: func(context.Context) ([]domain.Ticket, error) {
			return []domain.Ticket{{ID: 1, Status: domain.TicketPending}, {ID: 2, Status: domain.TicketPending}}, nil
		},
		updateFn: func(_ context.Context, id int64, in domain.Ticket) (domain.Ticket, error) {
			in.ID = id
			return in, nil
		},
		deleteFn: func(context.Context, int64) error { return nil },
	}
	c := newTicketCache(backend)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	updated, err := c.Update(context.Background(), 1, domain.Ticket{Status: domain.TicketCompleted})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != domain.TicketCompleted {
		t.Fatalf("unexpected updated entity: %+v", updated)
	}
	if got, _ := c.Get(1); got.Status != domain.TicketCompleted {
		t.Fatalf("mirror not patched: %+v", got)
	}

	if err := c.Remove(context.Background(), 2); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, ok := c.Get(2); ok {
		t.Fatalf("removed entity still mirrored")
	}

	backend.deleteFn = func(context.Context, int64) error { return errors.New("rejected") }
	if err := c.Remove(context.Background(), 1); err == nil {
		t.Fatalf("expected remove error")
	}
	if _, ok := c.Get(1); !ok {
		t.Fatalf("failed remove must leave the mirror untouched")
	}
}

func TestCache_ApplyPatchesSideChannelResult(t *testing.T) {
	backend := &stubBackend{
		fetchAllFn: func(context.Context) ([]domain.Ticket, error) {
			return []domain.Ticket{{ID: 1, Status: domain.TicketPending}}, nil
		},
	}
	c := newTicketCache(backend)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	c.Apply(domain.Ticket{ID: 1, Status: domain.TicketInProgress, Comments: []string{"on site"}})
	got, _ := c.Get(1)
	if got.Status != domain.TicketInProgress || len(got.Comments) != 1 {
		t.Fatalf("apply did not patch the mirror: %+v", got)
	}
}

func TestCache_ResetForgetsEverything(t *testing.T) {
	fetches := 0
	backend := &stubBackend{
		fetchAllFn: func(context.Context) ([]domain.Ticket, error) {
			fetches++
			return []domain.Ticket{{ID: int64(fetches)}}, nil
		},
	}
	c := newTicketCache(backend)
	if _, err := c.List(context.Background()); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	c.Reset()
	if _, ok := c.Get(1); ok {
		t.Fatalf("reset must drop mirrored items")
	}

	items, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list after reset failed: %v", err)
	}
	if fetches != 2 || len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("expected a fresh fetch after reset, fetches=%d items=%+v", fetches, items)
	}
}
