package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/capitalcare/care-console/internal/cache"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// listResponse wraps a collection. LoadError carries the sticky load-failed
// state (for example a recovered shape mismatch) so views can show a banner
// next to the possibly empty list instead of crashing.
type listResponse[T any] struct {
	Data      []T    `json:"data"`
	LoadError string `json:"load_error,omitempty"`
}

// respondList serves the mirrored collection for one resource.
func respondList[T any](c echo.Context, mirror *cache.Cache[T]) error {
	items, err := mirror.List(c.Request().Context())
	if err != nil {
		return err
	}
	resp := listResponse[T]{Data: items}
	if items == nil {
		resp.Data = []T{}
	}
	if loadErr := mirror.LoadErr(); loadErr != nil {
		resp.LoadError = "failed to load collection"
	}
	return c.JSON(http.StatusOK, resp)
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
