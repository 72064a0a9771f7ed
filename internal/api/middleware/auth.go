package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/capitalcare/care-console/internal/api/metrics"
	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
	"github.com/capitalcare/care-console/internal/guard"
	"github.com/capitalcare/care-console/internal/session"
)

// Auth resolves the bearer console token to a session and injects it into the
// request context for the upstream client and handlers. Anything that fails
// to resolve lands on the login entry point, the same place the guard sends
// role mismatches.
func Auth(tokens *session.TokenIssuer, store ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return redirectLogin(c, guard.AnyRole)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return redirectLogin(c, guard.AnyRole)
			}

			sid, err := tokens.Parse(parts[1])
			if err != nil {
				return redirectLogin(c, guard.AnyRole)
			}

			sess, err := store.Resolve(c.Request().Context(), sid)
			if errors.Is(err, domain.ErrSessionNotFound) {
				return redirectLogin(c, guard.AnyRole)
			}
			if err != nil {
				return err
			}
			if guard.Decide(sess, guard.AnyRole) == guard.RedirectLogin {
				return redirectLogin(c, guard.AnyRole)
			}

			req := c.Request()
			c.SetRequest(req.WithContext(domain.NewContext(req.Context(), sess)))
			c.Set("session", sess)

			return next(c)
		}
	}
}

// redirectLogin answers the guard's RedirectLogin decision. Browsers get a
// real redirect; API callers get 401 with the login location in the body.
func redirectLogin(c echo.Context, requiredRole string) error {
	label := requiredRole
	if label == guard.AnyRole {
		label = "any"
	}
	metrics.GuardRedirectsTotal.WithLabelValues(label).Inc()

	if strings.Contains(c.Request().Header.Get("Accept"), "text/html") {
		return c.Redirect(http.StatusFound, "/login")
	}
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"error":    "unauthorized",
		"redirect": "/login",
	})
}
