package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aymaseguros/portal-api/internal/core/service"
)

type NavigationHandler struct{}

func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Tabs returns the navigation entries visible to the caller's role.
//
// @Summary      Navigation tabs
// @Tags         navigation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  service.Tab
// @Router       /api/v1/navigation [get]
func (h *NavigationHandler) Tabs(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, service.TabsFor(session.User.Role))
}
