package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/capitalcare/care-console/internal/cache"
	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

// TicketHandler serves the ticket screens for every role that sees them.
type TicketHandler struct {
	mirror   *cache.Cache[domain.Ticket]
	tickets  ports.TicketAPI
	activity ports.ActivityRecorder
}

func NewTicketHandler(mirror *cache.Cache[domain.Ticket], tickets ports.TicketAPI, activity ports.ActivityRecorder) *TicketHandler {
	return &TicketHandler{mirror: mirror, tickets: tickets, activity: activity}
}

type ticketRequest struct {
	Title        string `json:"title"       validate:"required"`
	Description  string `json:"description" validate:"required"`
	ClientName   string `json:"clientName"  validate:"required"`
	Priority     string `json:"priority"    validate:"required,oneof=low medium high critical"`
	AssignedTech string `json:"assignedTech"`
	Status       string `json:"status"      validate:"omitempty,oneof=pending in-progress completed"`
}

func (r ticketRequest) toDomain() domain.Ticket {
	status := r.Status
	if status == "" {
		status = domain.TicketPending
	}
	return domain.Ticket{
		Title:        r.Title,
		Description:  r.Description,
		ClientName:   r.ClientName,
		Priority:     r.Priority,
		AssignedTech: r.AssignedTech,
		Status:       status,
	}
}

type commentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

// List returns the mirrored ticket collection.
//
// @Summary      List tickets
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Ticket]
// @Router       /api/agent/tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	return respondList(c, h.mirror)
}

// Create opens a new ticket.
func (h *TicketHandler) Create(c echo.Context) error {
	var req ticketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	created, err := h.mirror.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	h.activity.Record(c.Request().Context(), "create", "tickets", created.ID)
	return c.JSON(http.StatusCreated, created)
}

// Update rewrites an existing ticket.
func (h *TicketHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req ticketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	updated, err := h.mirror.Update(c.Request().Context(), id, req.toDomain())
	if err != nil {
		return err
	}
	h.activity.Record(c.Request().Context(), "update", "tickets", id)
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a ticket.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.mirror.Remove(c.Request().Context(), id); err != nil {
		return err
	}
	h.activity.Record(c.Request().Context(), "delete", "tickets", id)
	return c.NoContent(http.StatusNoContent)
}

// AddComment appends a comment to a ticket and patches the mirror with the
// backend-confirmed result.
func (h *TicketHandler) AddComment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	ticket, err := h.tickets.AddComment(c.Request().Context(), id, req.Comment)
	if err != nil {
		return err
	}
	h.mirror.Apply(ticket)
	h.activity.Record(c.Request().Context(), "comment", "tickets", id)
	return c.JSON(http.StatusOK, ticket)
}
