package ports

import (
	"context"

	"github.com/aymaseguros/portal-api/internal/core/domain"
)

// DashboardService runs aggregation passes: one coordinated set of
// core-API fetches producing a new ViewModel for the session's role.
type DashboardService interface {
	Aggregate(ctx context.Context, session domain.Session) (domain.ViewModel, error)
}
