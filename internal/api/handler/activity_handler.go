package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

// ActivityHandler exposes the admin activity trail.
type ActivityHandler struct {
	activity ports.ActivityRecorder
}

func NewActivityHandler(activity ports.ActivityRecorder) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// Recent returns the newest trail entries.
//
// @Summary      Recent console activity
// @Tags         activity
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries to return"
// @Success      200    {object}  listResponse[domain.ActivityEntry]
// @Router       /api/admin/activity [get]
func (h *ActivityHandler) Recent(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := h.activity.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.ActivityEntry{}
	}
	return c.JSON(http.StatusOK, listResponse[domain.ActivityEntry]{Data: entries})
}
