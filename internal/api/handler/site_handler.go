package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/capitalcare/care-console/internal/cache"
	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

// SiteHandler serves site CRUD plus the validated payload the map layer
// consumes. The map contract is strict: only sites with a name and plausible
// coordinates are handed to the marker/routing layer.
type SiteHandler struct {
	mirror   *cache.Cache[domain.Site]
	links    ports.SiteLinkRepository
	activity ports.ActivityRecorder
}

func NewSiteHandler(mirror *cache.Cache[domain.Site], links ports.SiteLinkRepository, activity ports.ActivityRecorder) *SiteHandler {
	return &SiteHandler{mirror: mirror, links: links, activity: activity}
}

type siteRequest struct {
	Name        string  `json:"name" validate:"required"`
	Lat         float64 `json:"lat"  validate:"required,latitude"`
	Lng         float64 `json:"lng"  validate:"required,longitude"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Address     string  `json:"address"`
	Contact     string  `json:"contact"`
}

func (r siteRequest) toDomain() domain.Site {
	return domain.Site{
		Name:        r.Name,
		Lat:         r.Lat,
		Lng:         r.Lng,
		Description: r.Description,
		Type:        r.Type,
		Status:      r.Status,
		Address:     r.Address,
		Contact:     r.Contact,
	}
}

type siteLinkRequest struct {
	From int64 `json:"from" validate:"required"`
	To   int64 `json:"to"   validate:"required,nefield=From"`
}

// mapResponse is what the map layer renders: clean markers plus the
// connection overlay. Skipped counts sites dropped by validation.
type mapResponse struct {
	Sites   []domain.Site     `json:"sites"`
	Links   []domain.SiteLink `json:"links"`
	Skipped int               `json:"skipped,omitempty"`
}

func (h *SiteHandler) List(c echo.Context) error {
	return respondList(c, h.mirror)
}

func (h *SiteHandler) Create(c echo.Context) error {
	var req siteRequest
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
	h.activity.Record(c.Request().Context(), "create", "sites", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *SiteHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req siteRequest
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
	h.activity.Record(c.Request().Context(), "update", "sites", id)
	return c.JSON(http.StatusOK, updated)
}

func (h *SiteHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.mirror.Remove(c.Request().Context(), id); err != nil {
		return err
	}
	h.activity.Record(c.Request().Context(), "delete", "sites", id)
	return c.NoContent(http.StatusNoContent)
}

// Map returns the validated site list and the connection overlay.
//
// @Summary      Map payload
// @Tags         map
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  mapResponse
// @Router       /api/map/sites [get]
func (h *SiteHandler) Map(c echo.Context) error {
	ctx := c.Request().Context()

	sites, err := h.mirror.List(ctx)
	if err != nil {
		return err
	}
	mappable := make([]domain.Site, 0, len(sites))
	for _, s := range sites {
		if s.Mappable() {
			mappable = append(mappable, s)
		}
	}

	links, err := h.links.List(ctx)
	if err != nil {
		return err
	}
	if links == nil {
		links = []domain.SiteLink{}
	}

	return c.JSON(http.StatusOK, mapResponse{
		Sites:   mappable,
		Links:   links,
		Skipped: len(sites) - len(mappable),
	})
}

// AddLink connects two sites on the overlay. Connecting an already-linked
// pair, in either direction, is a no-op.
func (h *SiteHandler) AddLink(c echo.Context) error {
	var req siteLinkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	if _, ok := h.mirror.Get(req.From); !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown site in link"})
	}
	if _, ok := h.mirror.Get(req.To); !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown site in link"})
	}

	link, err := h.links.Add(c.Request().Context(), req.From, req.To)
	if err != nil {
		return err
	}
	h.activity.Record(c.Request().Context(), "link", "sites", req.From)
	return c.JSON(http.StatusCreated, link)
}

// RemoveLink disconnects two sites.
func (h *SiteHandler) RemoveLink(c echo.Context) error {
	var req siteLinkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.links.Remove(c.Request().Context(), req.From, req.To); err != nil {
		return err
	}
	h.activity.Record(c.Request().Context(), "unlink", "sites", req.From)
	return c.NoContent(http.StatusNoContent)
}
