package cache

import (
	"github.com/rs/zerolog"

	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

// Set bundles the per-resource mirrors the console serves from.
type Set struct {
	Tickets *Cache[domain.Ticket]
	Clients *Cache[domain.Client]
	Routers *Cache[domain.Router]
	Sites   *Cache[domain.Site]
	Users   *Cache[domain.User]
}

// NewSet instantiates one cache per resource collection.
func NewSet(
	tickets ports.TicketAPI,
	clients ports.ResourceBackend[domain.Client],
	routers ports.RouterAPI,
	sites ports.ResourceBackend[domain.Site],
	users ports.UserAPI,
	log zerolog.Logger,
) *Set {
	return &Set{
		Tickets: New("tickets", tickets, func(t domain.Ticket) int64 { return t.ID }, log),
		Clients: New("clients", clients, func(c domain.Client) int64 { return c.ID }, log),
		Routers: New("routers", routers, func(r domain.Router) int64 { return r.ID }, log),
		Sites:   New("sites", sites, func(s domain.Site) int64 { return s.ID }, log),
		Users:   New("users", users, func(u domain.User) int64 { return u.ID }, log),
	}
}
