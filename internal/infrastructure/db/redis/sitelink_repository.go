package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/capitalcare/care-console/internal/core/domain"
)

const siteLinksKey = "site_links"

// SiteLinkRepository keeps the map connection overlay as one JSON array under
// a single key, mirroring how the console has always treated links: a small
// durable blob, rewritten whole.
type SiteLinkRepository struct {
	client *redis.Client

	// mu serializes the blob's read-modify-write cycle. This repository is
	// the only writer of the key, so concurrent mutations within the process
	// cannot drop each other's links.
	mu sync.Mutex
}

func NewSiteLinkRepository(client *redis.Client) *SiteLinkRepository {
	return &SiteLinkRepository{client: client}
}

func (r *SiteLinkRepository) List(ctx context.Context) ([]domain.SiteLink, error) {
	blob, err := r.client.Get(ctx, siteLinksKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load site links: %w", err)
	}

	var links []domain.SiteLink
	if err := json.Unmarshal(blob, &links); err != nil {
		// A corrupt blob reads as no links rather than a dead map screen.
		return nil, nil
	}
	return links, nil
}

// Add stores a link unless the pair is already connected in either direction.
func (r *SiteLinkRepository) Add(ctx context.Context, from, to int64) (domain.SiteLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	links, err := r.List(ctx)
	if err != nil {
		return domain.SiteLink{}, err
	}
	merged, link, changed := mergeLink(links, from, to)
	if !changed {
		return link, nil
	}
	return link, r.save(ctx, merged)
}

func (r *SiteLinkRepository) Remove(ctx context.Context, from, to int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	links, err := r.List(ctx)
	if err != nil {
		return err
	}
	return r.save(ctx, dropLink(links, from, to))
}

// mergeLink appends a link for the pair unless it is already connected in
// either direction. It returns the resulting set, the link for the pair, and
// whether the set changed.
func mergeLink(links []domain.SiteLink, from, to int64) ([]domain.SiteLink, domain.SiteLink, bool) {
	for _, l := range links {
		if l.Matches(from, to) {
			return links, l, false
		}
	}
	link := domain.SiteLink{From: from, To: to}
	return append(links, link), link, true
}

// dropLink removes any link connecting the pair, in either direction.
func dropLink(links []domain.SiteLink, from, to int64) []domain.SiteLink {
	kept := links[:0]
	for _, l := range links {
		if !l.Matches(from, to) {
			kept = append(kept, l)
		}
	}
	return kept
}

func (r *SiteLinkRepository) save(ctx context.Context, links []domain.SiteLink) error {
	if links == nil {
		links = []domain.SiteLink{}
	}
	blob, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("encode site links: %w", err)
	}
	if err := r.client.Set(ctx, siteLinksKey, blob, 0).Err(); err != nil {
		return fmt.Errorf("store site links: %w", err)
	}
	return nil
}
