package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/aymaseguros/portal-api/internal/core/domain"
	"github.com/aymaseguros/portal-api/internal/core/ports"
)

// Context key under which the restored session is stored.
const sessionKey = "session"

// Auth validates the portal JWT and restores the session it names.
// A token whose session no longer exists (logout, forced teardown,
// expiry) is rejected with 401 — the startup-restoration path and the
// per-request path are the same code.
func Auth(jwtSecret string, sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sid, _ := claims["sid"].(string)
			if sid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing session identity")
			}

			session, err := sessions.Restore(c.Request().Context(), sid)
			if err != nil {
				return err
			}
			if session.IsZero() {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			c.Set(sessionKey, session)
			return next(c)
		}
	}
}

// SessionFrom extracts the session injected by Auth. The second return
// is false when the middleware did not run.
func SessionFrom(c echo.Context) (domain.Session, bool) {
	session, ok := c.Get(sessionKey).(domain.Session)
	return session, ok
}
