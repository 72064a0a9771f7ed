package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/capitalcare/care-console/internal/cache"
	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

// ClientHandler serves the customer accounts screens.
type ClientHandler struct {
	mirror   *cache.Cache[domain.Client]
	activity ports.ActivityRecorder
}

func NewClientHandler(mirror *cache.Cache[domain.Client], activity ports.ActivityRecorder) *ClientHandler {
	return &ClientHandler{mirror: mirror, activity: activity}
}

type clientRequest struct {
	Name          string `json:"name"    validate:"required"`
	Contact       string `json:"contact" validate:"required"`
	Address       string `json:"address" validate:"required"`
	RouterDetails string `json:"routerDetails"`
}

func (r clientRequest) toDomain() domain.Client {
	return domain.Client{
		Name:          r.Name,
		Contact:       r.Contact,
		Address:       r.Address,
		RouterDetails: r.RouterDetails,
	}
}

func (h *ClientHandler) List(c echo.Context) error {
	return respondList(c, h.mirror)
}

func (h *ClientHandler) Create(c echo.Context) error {
	var req clientRequest
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
	h.activity.Record(c.Request().Context(), "create", "clients", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *ClientHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req clientRequest
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
	h.activity.Record(c.Request().Context(), "update", "clients", id)
	return c.JSON(http.StatusOK, updated)
}

func (h *ClientHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.mirror.Remove(c.Request().Context(), id); err != nil {
		return err
	}
	h.activity.Record(c.Request().Context(), "delete", "clients", id)
	return c.NoContent(http.StatusNoContent)
}
