package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aymaseguros/portal-api/internal/api/middleware"
	"github.com/aymaseguros/portal-api/internal/core/domain"
	"github.com/aymaseguros/portal-api/internal/core/ports"
)

// ctxSession extracts the session restored by the Auth middleware and
// fast-fails when it is missing — presence proves the middleware ran.
func ctxSession(c echo.Context) (domain.Session, error) {
	session, ok := middleware.SessionFrom(c)
	if !ok || session.IsZero() {
		return domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return session, nil
}

// tearDownIfInvalid destroys the session when a core API call came
// back 401. Every authenticated proxy path routes its error through
// here so a rejected token always ends the session, regardless of
// which fetch noticed first.
func tearDownIfInvalid(ctx context.Context, sessions ports.SessionService, session domain.Session, err error) error {
	if errors.Is(err, domain.ErrSessionInvalid) {
		_ = sessions.Teardown(ctx, session.ID, "core api rejected token")
	}
	return err
}
