package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole enforces role-based access using a predicate from the
// navigation composer (service.IsAdmin, service.CanManageClients, ...).
// Routes never compare role strings themselves; there is one definition
// of who can see what.
func RequireRole(allow func(role string) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, ok := SessionFrom(c)
			if !ok || session.IsZero() {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !allow(session.User.Role) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
