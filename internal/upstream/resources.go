package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

// collection implements ports.ResourceBackend for one resource path. key is
// the wrapper key the backend sometimes nests the list under.
type collection[T any] struct {
	c    *Client
	path string
	key  string
}

func (r collection[T]) FetchAll(ctx context.Context) ([]T, error) {
	raw, err := r.c.do(ctx, http.MethodGet, r.path+"/", nil)
	if err != nil {
		return nil, err
	}
	list, err := normalizeCollection[T](raw, r.key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.key, err)
	}
	return list, nil
}

func (r collection[T]) Create(ctx context.Context, entity T) (T, error) {
	raw, err := r.c.do(ctx, http.MethodPost, r.path+"/", entity)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeEntity[T](raw)
}

func (r collection[T]) Update(ctx context.Context, id int64, entity T) (T, error) {
	raw, err := r.c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", r.path, id), entity)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeEntity[T](raw)
}

func (r collection[T]) Delete(ctx context.Context, id int64) error {
	_, err := r.c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", r.path, id), nil)
	return err
}

type ticketAPI struct {
	collection[domain.Ticket]
}

func (t ticketAPI) AddComment(ctx context.Context, id int64, comment string) (domain.Ticket, error) {
	raw, err := t.c.do(ctx, http.MethodPost, fmt.Sprintf("/tickets/%d/comments", id), map[string]string{"comment": comment})
	if err != nil {
		return domain.Ticket{}, err
	}
	return decodeEntity[domain.Ticket](raw)
}

type routerAPI struct {
	collection[domain.Router]
}

func (r routerAPI) SetStatus(ctx context.Context, id int64, status string) (domain.Router, error) {
	raw, err := r.c.do(ctx, http.MethodPut, fmt.Sprintf("/routers/%d/status", id), map[string]string{"status": status})
	if err != nil {
		return domain.Router{}, err
	}
	return decodeEntity[domain.Router](raw)
}

type userAPI struct {
	collection[domain.User]
}

func (u userAPI) Technicians(ctx context.Context) ([]domain.User, error) {
	raw, err := u.c.do(ctx, http.MethodGet, "/users/technicians", nil)
	if err != nil {
		return nil, err
	}
	list, err := normalizeCollection[domain.User](raw, "technicians")
	if err != nil {
		return nil, fmt.Errorf("technicians: %w", err)
	}
	return list, nil
}

// Tickets returns the ticket collection API.
func (c *Client) Tickets() ports.TicketAPI {
	return ticketAPI{collection[domain.Ticket]{c: c, path: "/tickets", key: "tickets"}}
}

// Clients returns the client collection API.
func (c *Client) Clients() ports.ResourceBackend[domain.Client] {
	return collection[domain.Client]{c: c, path: "/clients", key: "clients"}
}

// Routers returns the router collection API.
func (c *Client) Routers() ports.RouterAPI {
	return routerAPI{collection[domain.Router]{c: c, path: "/routers", key: "routers"}}
}

// Sites returns the site collection API.
func (c *Client) Sites() ports.ResourceBackend[domain.Site] {
	return collection[domain.Site]{c: c, path: "/sites", key: "sites"}
}

// Users returns the user collection API.
func (c *Client) Users() ports.UserAPI {
	return userAPI{collection[domain.User]{c: c, path: "/users", key: "users"}}
}
