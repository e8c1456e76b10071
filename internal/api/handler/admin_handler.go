package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aymaseguros/portal-api/internal/core/ports"
)

// AdminHandler serves the CRM surface: client lists, leads, brokerage
// metrics, expirations, CSV export, and activity registration. The
// underlying resources live in the core API; shapes the portal does
// not interpret are proxied verbatim.
type AdminHandler struct {
	core     ports.CoreAPI
	sessions ports.SessionService
}

func NewAdminHandler(core ports.CoreAPI, sessions ports.SessionService) *AdminHandler {
	return &AdminHandler{core: core, sessions: sessions}
}

// Clients returns the full brokerage client list.
//
// @Summary      List brokerage clients
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Client
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/admin/clients [get]
func (h *AdminHandler) Clients(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	clients, err := h.core.FetchAdminClients(c.Request().Context(), session.Token)
	if err != nil {
		return tearDownIfInvalid(c.Request().Context(), h.sessions, session, err)
	}
	return c.JSON(http.StatusOK, clients)
}

// Leads proxies the lead list.
//
// @Summary      List leads
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   object
// @Router       /api/v1/admin/leads [get]
func (h *AdminHandler) Leads(c echo.Context) error {
	return h.proxy(c, "/api/v1/admin/leads")
}

// Metrics proxies the executive brokerage metrics.
//
// @Summary      Brokerage metrics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  object
// @Router       /api/v1/admin/metrics [get]
func (h *AdminHandler) Metrics(c echo.Context) error {
	return h.proxy(c, "/api/v1/admin/metricas")
}

// Expirations proxies upcoming policy expirations.
//
// @Summary      Upcoming expirations
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   object
// @Router       /api/v1/admin/expirations [get]
func (h *AdminHandler) Expirations(c echo.Context) error {
	return h.proxy(c, "/api/v1/admin/vencimientos")
}

// ExportClients streams the client list as CSV.
//
// @Summary      Export clients as CSV
// @Tags         admin
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200  {string}  string
// @Router       /api/v1/admin/clients/export [get]
func (h *AdminHandler) ExportClients(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	csv, err := h.core.ExportClientsCSV(c.Request().Context(), session.Token)
	if err != nil {
		return tearDownIfInvalid(c.Request().Context(), h.sessions, session, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="clientes.csv"`)
	return c.Blob(http.StatusOK, "text/csv", csv)
}

type activityRequest struct {
	Kind    string `json:"kind" validate:"required,oneof=call email meeting note"`
	Comment string `json:"comment" validate:"required,min=3"`
}

// RegisterActivity records a CRM activity against a client.
//
// @Summary      Register client activity
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string           true  "Client ID"
// @Param        body  body  activityRequest  true  "Activity"
// @Success      204   "registered"
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/admin/clients/{id}/activity [post]
func (h *AdminHandler) RegisterActivity(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req activityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	activity := ports.ActivityInput{Kind: req.Kind, Comment: req.Comment}
	if err := h.core.RegisterClientActivity(c.Request().Context(), session.Token, c.Param("id"), activity); err != nil {
		return tearDownIfInvalid(c.Request().Context(), h.sessions, session, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) proxy(c echo.Context, corePath string) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	raw, err := h.core.FetchAdminResource(c.Request().Context(), session.Token, corePath)
	if err != nil {
		return tearDownIfInvalid(c.Request().Context(), h.sessions, session, err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}
