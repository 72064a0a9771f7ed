package domain

import "time"

const (
	RoleAdmin      = "admin"
	RoleAgent      = "agent"
	RoleTechnician = "technician"
)

// KnownRole reports whether role is one of the three console roles.
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAgent, RoleTechnician:
		return true
	}
	return false
}

// User models a console user, both the authenticated identity carried by a
// session and an entry in the admin-managed users collection.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	// Password is only ever populated on the way to the backend when an
	// admin creates or rekeys a user; the backend never echoes it back.
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
