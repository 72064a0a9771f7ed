package domain

import "time"

// ActivityEntry is one line in the admin activity trail: who did what to
// which resource, and when.
type ActivityEntry struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Role       string    `json:"role"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource,omitempty"`
	ResourceID int64     `json:"resource_id,omitempty"`
	At         time.Time `json:"at"`
}
