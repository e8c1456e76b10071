package ports

import (
	"context"
	"encoding/json"

	"github.com/aymaseguros/portal-api/internal/core/domain"
)

// LoginResult is the core API's answer to a successful credential check.
type LoginResult struct {
	AccessToken string
	Email       string
	RawRole     string
}

// ActivityInput is a note registered against a brokerage client.
type ActivityInput struct {
	Kind    string
	Comment string
}

// CoreAPI is the outbound boundary to the remote brokerage core.
// Every authenticated call takes the caller's session token; a 401
// from the core surfaces as domain.ErrSessionInvalid and the caller
// is responsible for tearing the session down.
type CoreAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	FetchSummary(ctx context.Context, token string) (json.RawMessage, error)
	FetchPolicies(ctx context.Context, token string) ([]domain.Policy, error)
	FetchPolicy(ctx context.Context, token, id string) (*domain.Policy, error)
	FetchVehicles(ctx context.Context, token string) ([]domain.Vehicle, error)
	FetchVehicle(ctx context.Context, token, id string) (*domain.Vehicle, error)
	FetchAdminClients(ctx context.Context, token string) ([]domain.Client, error)

	// FetchAdminResource proxies the opaque admin resources (leads,
	// metrics, expirations, executive series) without interpreting
	// their shape.
	FetchAdminResource(ctx context.Context, token, path string) (json.RawMessage, error)
	ExportClientsCSV(ctx context.Context, token string) ([]byte, error)
	RegisterClientActivity(ctx context.Context, token, clientID string, activity ActivityInput) error
}
