package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aymaseguros/portal-api/internal/core/ports"
)

type VehicleHandler struct {
	core     ports.CoreAPI
	sessions ports.SessionService
}

func NewVehicleHandler(core ports.CoreAPI, sessions ports.SessionService) *VehicleHandler {
	return &VehicleHandler{core: core, sessions: sessions}
}

// List returns the caller's insured vehicles.
//
// @Summary      List vehicles
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Vehicle
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/vehicles [get]
func (h *VehicleHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	vehicles, err := h.core.FetchVehicles(c.Request().Context(), session.Token)
	if err != nil {
		return tearDownIfInvalid(c.Request().Context(), h.sessions, session, err)
	}
	return c.JSON(http.StatusOK, vehicles)
}

// Get returns one vehicle by its identifier.
//
// @Summary      Vehicle detail
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  domain.Vehicle
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/vehicles/{id} [get]
func (h *VehicleHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	vehicle, err := h.core.FetchVehicle(c.Request().Context(), session.Token, c.Param("id"))
	if err != nil {
		return tearDownIfInvalid(c.Request().Context(), h.sessions, session, err)
	}
	return c.JSON(http.StatusOK, vehicle)
}
