package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aymaseguros/portal-api/internal/core/ports"
)

type DashboardHandler struct {
	dashboards ports.DashboardService
}

func NewDashboardHandler(dashboards ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// Get runs an aggregation pass for the session's role and returns the
// merged view model. A required-fetch failure comes back as the last
// good model with the error field set; a rejected token has already
// torn the session down by the time the 401 reaches the browser.
//
// @Summary      Dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.ViewModel
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/dashboard [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	vm, err := h.dashboards.Aggregate(c.Request().Context(), session)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vm)
}
