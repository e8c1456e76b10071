package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aymaseguros/portal-api/internal/core/ports"
)

type PolicyHandler struct {
	core     ports.CoreAPI
	sessions ports.SessionService
}

func NewPolicyHandler(core ports.CoreAPI, sessions ports.SessionService) *PolicyHandler {
	return &PolicyHandler{core: core, sessions: sessions}
}

// List returns the caller's policies.
//
// @Summary      List policies
// @Tags         policies
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Policy
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/policies [get]
func (h *PolicyHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	policies, err := h.core.FetchPolicies(c.Request().Context(), session.Token)
	if err != nil {
		return tearDownIfInvalid(c.Request().Context(), h.sessions, session, err)
	}
	return c.JSON(http.StatusOK, policies)
}

// Get returns one policy by its identifier.
//
// @Summary      Policy detail
// @Tags         policies
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Policy ID"
// @Success      200  {object}  domain.Policy
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/policies/{id} [get]
func (h *PolicyHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	policy, err := h.core.FetchPolicy(c.Request().Context(), session.Token, c.Param("id"))
	if err != nil {
		return tearDownIfInvalid(c.Request().Context(), h.sessions, session, err)
	}
	return c.JSON(http.StatusOK, policy)
}
