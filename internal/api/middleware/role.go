package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/guard"
)

// RequireRole gates a route group on one role. A wrong role goes back to the
// login entry point, exactly like a missing session; the console does not
// have a distinct forbidden page.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := c.Get("session").(*domain.Session)
			if guard.Decide(sess, role) == guard.RedirectLogin {
				return redirectLogin(c, role)
			}
			return next(c)
		}
	}
}
