package domain

import (
	"encoding/json"
	"time"
)

// Ticket statuses and priorities as used by the care backend.
const (
	TicketPending    = "pending"
	TicketInProgress = "in-progress"
	TicketCompleted  = "completed"
)

// Ticket is a customer-care ticket.
type Ticket struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ClientName   string    `json:"clientName"`
	Priority     string    `json:"priority"`
	AssignedTech string    `json:"assignedTech,omitempty"`
	Status       string    `json:"status"`
	Comments     []string  `json:"comments,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// Client is a customer account.
type Client struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Contact       string    `json:"contact"`
	Address       string    `json:"address"`
	RouterDetails string    `json:"routerDetails,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// Router statuses.
const (
	RouterActive      = "active"
	RouterInactive    = "inactive"
	RouterMaintenance = "maintenance"
)

// Router is a deployed customer-premises router.
type Router struct {
	ID       int64  `json:"id"`
	Model    string `json:"model"`
	Serial   string `json:"serial"`
	ClientID int64  `json:"client_id,omitempty"`
	Location string `json:"location,omitempty"`
	Status   string `json:"status"`
}

// Site is a network site rendered on the operations map.
type Site struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"type,omitempty"`
	Status      string  `json:"status,omitempty"`
	Address     string  `json:"address,omitempty"`
	Contact     string  `json:"contact,omitempty"`
}

// UnmarshalJSON accepts both coordinate spellings the backend has been seen
// to emit: lat/lng and latitude/longitude.
func (s *Site) UnmarshalJSON(data []byte) error {
	type alias Site
	aux := struct {
		*alias
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if s.Lat == 0 && aux.Latitude != nil {
		s.Lat = *aux.Latitude
	}
	if s.Lng == 0 && aux.Longitude != nil {
		s.Lng = *aux.Longitude
	}
	return nil
}

// Mappable reports whether the site can be placed on the map: it needs a name
// and plausible coordinates. The zero point is rejected as a missing value.
func (s Site) Mappable() bool {
	if s.Name == "" {
		return false
	}
	if s.Lat == 0 && s.Lng == 0 {
		return false
	}
	return s.Lat >= -90 && s.Lat <= 90 && s.Lng >= -180 && s.Lng <= 180
}

// SiteLink is a connection overlay between two sites. A link is identified by
// its endpoint pair; direction does not matter.
type SiteLink struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// Matches reports whether the link connects the same pair, in either direction.
func (l SiteLink) Matches(from, to int64) bool {
	return (l.From == from && l.To == to) || (l.From == to && l.To == from)
}
