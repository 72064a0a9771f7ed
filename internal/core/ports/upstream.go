package ports

import (
	"context"

	"github.com/capitalcare/care-console/internal/core/domain"
)

// LoginResult is the care backend's answer to a successful login.
type LoginResult struct {
	Token string
	User  domain.User
}

// AuthAPI covers the care backend's auth endpoints.
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)
	Profile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, in ProfileInput) (*domain.User, error)
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Name  string
	Email string
}

// ResourceBackend is one care-backend resource collection as seen by its
// cache: fetch everything, or mutate a single entity. Implementations return
// the entity as confirmed by the backend so the local mirror stays honest.
type ResourceBackend[T any] interface {
	FetchAll(ctx context.Context) ([]T, error)
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, id int64, entity T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// TicketAPI adds the ticket-only operations on top of plain CRUD.
type TicketAPI interface {
	ResourceBackend[domain.Ticket]
	AddComment(ctx context.Context, id int64, comment string) (domain.Ticket, error)
}

// RouterAPI adds the router status flip.
type RouterAPI interface {
	ResourceBackend[domain.Router]
	SetStatus(ctx context.Context, id int64, status string) (domain.Router, error)
}

// UserAPI adds the technician roster.
type UserAPI interface {
	ResourceBackend[domain.User]
	Technicians(ctx context.Context) ([]domain.User, error)
}
