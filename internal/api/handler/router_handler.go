package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/capitalcare/care-console/internal/cache"
	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

// RouterHandler serves the router inventory screens.
type RouterHandler struct {
	mirror   *cache.Cache[domain.Router]
	routers  ports.RouterAPI
	activity ports.ActivityRecorder
}

func NewRouterHandler(mirror *cache.Cache[domain.Router], routers ports.RouterAPI, activity ports.ActivityRecorder) *RouterHandler {
	return &RouterHandler{mirror: mirror, routers: routers, activity: activity}
}

type routerRequest struct {
	Model    string `json:"model"     validate:"required"`
	Serial   string `json:"serial"    validate:"required"`
	ClientID int64  `json:"client_id"`
	Location string `json:"location"`
	Status   string `json:"status"    validate:"omitempty,oneof=active inactive maintenance"`
}

func (r routerRequest) toDomain() domain.Router {
	status := r.Status
	if status == "" {
		status = domain.RouterActive
	}
	return domain.Router{
		Model:    r.Model,
		Serial:   r.Serial,
		ClientID: r.ClientID,
		Location: r.Location,
		Status:   status,
	}
}

type routerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive maintenance"`
}

func (h *RouterHandler) List(c echo.Context) error {
	return respondList(c, h.mirror)
}

func (h *RouterHandler) Create(c echo.Context) error {
	var req routerRequest
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
	h.activity.Record(c.Request().Context(), "create", "routers", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *RouterHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req routerRequest
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
	h.activity.Record(c.Request().Context(), "update", "routers", id)
	return c.JSON(http.StatusOK, updated)
}

func (h *RouterHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.mirror.Remove(c.Request().Context(), id); err != nil {
		return err
	}
	h.activity.Record(c.Request().Context(), "delete", "routers", id)
	return c.NoContent(http.StatusNoContent)
}

// SetStatus flips a router between active, inactive, and maintenance without
// rewriting the rest of the record.
func (h *RouterHandler) SetStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req routerStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	router, err := h.routers.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	h.mirror.Apply(router)
	h.activity.Record(c.Request().Context(), "status", "routers", id)
	return c.JSON(http.StatusOK, router)
}
