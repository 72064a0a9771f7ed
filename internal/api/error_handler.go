package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/capitalcare/care-console/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Redirect
// is set only on the 401 path so clients know where the login entry point is.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Passes upstream request failures through with their own status and message.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// A 401 observed mid-request: the session has already been invalidated
	// by the upstream client, the caller just needs to land on login.
	if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrSessionNotFound) {
		return http.StatusUnauthorized, errorResponse{Error: "unauthorized", Redirect: "/login"}
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	}
	if errors.Is(err, domain.ErrNotFound) {
		return http.StatusNotFound, errorResponse{Error: "not found"}
	}

	// Upstream failures keep their own status and message; the console never
	// rewrites what the care backend said.
	var re *domain.RequestError
	if errors.As(err, &re) {
		return re.Status, errorResponse{Error: re.Message}
	}
	var ne *domain.NetworkError
	if errors.As(err, &ne) {
		return http.StatusBadGateway, errorResponse{Error: "care backend unreachable"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
