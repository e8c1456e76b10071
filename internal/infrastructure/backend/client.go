// Package backend implements the outbound client for the brokerage
// core API. All portal data (policies, vehicles, clients, metrics) is
// owned by the core; this client attaches the session's bearer token,
// translates HTTP failures into the domain error taxonomy, and maps the
// core's wire shapes onto domain entities.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aymaseguros/portal-api/internal/api/metrics"
	"github.com/aymaseguros/portal-api/internal/core/domain"
	"github.com/aymaseguros/portal-api/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// Client talks to the brokerage core API over HTTPS.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a core API client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// SetHTTPClient overrides the underlying HTTP client (useful for testing).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// Login checks credentials against the core API. No bearer header is
// sent; a 401 here means bad credentials, not an invalid session.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res loginResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "", "login", body, &res)
	if errors.Is(err, domain.ErrSessionInvalid) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{
		AccessToken: res.AccessToken,
		Email:       res.Email,
		RawRole:     res.UserType,
	}, nil
}

// FetchSummary returns the dashboard summary metrics object verbatim.
func (c *Client) FetchSummary(ctx context.Context, token string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/v1/dashboard/", token, "summary", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) FetchPolicies(ctx context.Context, token string) ([]domain.Policy, error) {
	var dtos []policyDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/polizas/", token, "policies", nil, &dtos); err != nil {
		return nil, err
	}
	policies := make([]domain.Policy, 0, len(dtos))
	for _, d := range dtos {
		policies = append(policies, d.toDomain())
	}
	return policies, nil
}

func (c *Client) FetchPolicy(ctx context.Context, token, id string) (*domain.Policy, error) {
	var dto policyDTO
	err := c.do(ctx, http.MethodGet, "/api/v1/polizas/"+id, token, "policy", nil, &dto)
	if isNotFound(err) {
		return nil, domain.ErrPolicyNotFound
	}
	if err != nil {
		return nil, err
	}
	p := dto.toDomain()
	return &p, nil
}

func (c *Client) FetchVehicles(ctx context.Context, token string) ([]domain.Vehicle, error) {
	var dtos []vehicleDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/vehiculos/", token, "vehicles", nil, &dtos); err != nil {
		return nil, err
	}
	vehicles := make([]domain.Vehicle, 0, len(dtos))
	for _, d := range dtos {
		vehicles = append(vehicles, d.toDomain())
	}
	return vehicles, nil
}

func (c *Client) FetchVehicle(ctx context.Context, token, id string) (*domain.Vehicle, error) {
	var dto vehicleDTO
	err := c.do(ctx, http.MethodGet, "/api/v1/vehiculos/"+id, token, "vehicle", nil, &dto)
	if isNotFound(err) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, err
	}
	v := dto.toDomain()
	return &v, nil
}

func (c *Client) FetchAdminClients(ctx context.Context, token string) ([]domain.Client, error) {
	var dtos []clientDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/clientes", token, "admin_clients", nil, &dtos); err != nil {
		return nil, err
	}
	clients := make([]domain.Client, 0, len(dtos))
	for _, d := range dtos {
		clients = append(clients, d.toDomain())
	}
	return clients, nil
}

// FetchAdminResource proxies opaque admin resources (leads, metrics,
// expirations, trend series) without interpreting their shape.
func (c *Client) FetchAdminResource(ctx context.Context, token, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, token, "admin_resource", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ExportClientsCSV downloads the admin client list as CSV bytes.
func (c *Client) ExportClientsCSV(ctx context.Context, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/admin/clientes/export", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe("clients_export", "network_error", start)
		return nil, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()
	c.observe("clients_export", strconv.Itoa(resp.StatusCode), start)

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) RegisterClientActivity(ctx context.Context, token, clientID string, activity ports.ActivityInput) error {
	body := map[string]string{"tipo": activity.Kind, "comentario": activity.Comment}
	path := "/api/v1/admin/clientes/" + clientID + "/actividad"
	return c.do(ctx, http.MethodPost, path, token, "client_activity", body, nil)
}

// do issues one request. token == "" sends no Authorization header.
// The 401 check runs before generic error handling so an invalidated
// session is never misreported as a plain request failure.
func (c *Client) do(ctx context.Context, method, path, token, endpoint string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	c.setHeaders(req, token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, "network_error", start)
		return &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()
	c.observe(endpoint, strconv.Itoa(resp.StatusCode), start)

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.ErrSessionInvalid
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.RequestFailedError{
			Status:  resp.StatusCode,
			Message: errorDetail(resp),
		}
	}
	return nil
}

// errorDetail extracts the core API's `detail` field from an error
// body, falling back to a generic status-based message.
func errorDetail(resp *http.Response) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return fmt.Sprintf("unexpected status %d", resp.StatusCode)
}

func (c *Client) observe(endpoint, status string, start time.Time) {
	metrics.CoreRequestDuration.WithLabelValues(endpoint, status).Observe(time.Since(start).Seconds())
}

func isNotFound(err error) bool {
	var rf *domain.RequestFailedError
	return errors.As(err, &rf) && rf.Status == http.StatusNotFound
}
