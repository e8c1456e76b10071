package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aymaseguros/portal-api/internal/api/metrics"
	"github.com/aymaseguros/portal-api/internal/core/domain"
	"github.com/aymaseguros/portal-api/internal/core/ports"
)

// Aggregation pass outcomes, used as the metrics label.
const (
	outcomeSuccess        = "success"
	outcomeRequiredFailed = "required_failed"
	outcomeSessionInvalid = "session_invalid"
	outcomeDiscarded      = "discarded"
)

// DashboardService runs aggregation passes against the core API.
//
// Summary, policies, and vehicles are required fetches: any failure
// aborts the pass. The admin client list is best-effort: it only runs
// for admins and its failure yields an empty list instead of failing
// the pass. A 401 on any fetch, required or not, aborts and tears the
// session down.
type DashboardService struct {
	core     ports.CoreAPI
	sessions ports.SessionService
	cache    ports.ViewModelCache
	logger   zerolog.Logger
}

func NewDashboardService(core ports.CoreAPI, sessions ports.SessionService, cache ports.ViewModelCache, logger zerolog.Logger) *DashboardService {
	return &DashboardService{core: core, sessions: sessions, cache: cache, logger: logger}
}

// Aggregate fetches the role's dashboard resources concurrently and
// publishes the merged ViewModel atomically. On a required-fetch
// failure the previously published ViewModel is returned with Error
// set, so the caller never sees a blank dashboard over known-good data.
func (s *DashboardService) Aggregate(ctx context.Context, session domain.Session) (domain.ViewModel, error) {
	if session.IsZero() {
		return domain.ViewModel{}, domain.ErrUnauthenticated
	}

	token := session.Token
	role := session.User.Role

	var (
		summary  json.RawMessage
		policies []domain.Policy
		vehicles []domain.Vehicle

		summaryErr, policiesErr, vehiclesErr error

		clients    []domain.Client
		clientsErr error
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, summaryErr = s.core.FetchSummary(gctx, token)
		return summaryErr
	})
	g.Go(func() error {
		policies, policiesErr = s.core.FetchPolicies(gctx, token)
		return policiesErr
	})
	g.Go(func() error {
		vehicles, vehiclesErr = s.core.FetchVehicles(gctx, token)
		return vehiclesErr
	})

	if IsAdmin(role) {
		g.Go(func() error {
			clients, clientsErr = s.core.FetchAdminClients(gctx, token)
			if errors.Is(clientsErr, domain.ErrSessionInvalid) {
				// A rejected token aborts the whole pass even on a
				// best-effort fetch.
				return clientsErr
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Wait reports whichever fetch failed first, but by the time it
		// returns every per-fetch error has been recorded. A rejected
		// token on any of them classifies the pass, even when a slower
		// 401 lost the race to an ordinary failure.
		if sessionRejected(summaryErr, policiesErr, vehiclesErr, clientsErr) {
			metrics.AggregationPassesTotal.WithLabelValues(outcomeSessionInvalid).Inc()
			if terr := s.sessions.Teardown(ctx, session.ID, "core api rejected token"); terr != nil {
				s.logger.Error().Err(terr).Msg("session teardown failed")
			}
			return domain.ViewModel{}, domain.ErrSessionInvalid
		}
		metrics.AggregationPassesTotal.WithLabelValues(outcomeRequiredFailed).Inc()
		s.logger.Warn().Err(err).Str("email", session.User.Email).Msg("aggregation pass aborted")
		return s.lastGood(ctx, session.ID, err), nil
	}

	if clientsErr != nil {
		s.logger.Warn().Err(clientsErr).Msg("admin client list unavailable, continuing without it")
		clients = nil
	}

	vm := domain.EmptyViewModel()
	vm.Summary = summary
	if policies != nil {
		vm.Policies = policies
	}
	if vehicles != nil {
		vm.Vehicles = vehicles
	}
	if clients != nil {
		vm.Clients = clients
	}
	vm.TotalPremium = domain.TotalPremium(vm.Policies)

	// Commit guard: the session may have been logged out or torn down
	// while fetches were in flight. A pass whose originating session no
	// longer matches the current one is discarded, never published.
	current, err := s.sessions.Restore(ctx, session.ID)
	if err != nil {
		return domain.ViewModel{}, err
	}
	if current.IsZero() || current.Token != token {
		metrics.AggregationPassesTotal.WithLabelValues(outcomeDiscarded).Inc()
		s.logger.Info().Str("email", session.User.Email).Msg("discarding aggregation results for stale session")
		return domain.ViewModel{}, domain.ErrSessionInvalid
	}

	if err := s.cache.Put(ctx, session.ID, vm); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache dashboard")
	}

	metrics.AggregationPassesTotal.WithLabelValues(outcomeSuccess).Inc()
	return vm, nil
}

// sessionRejected reports whether any fetch came back 401.
func sessionRejected(errs ...error) bool {
	for _, err := range errs {
		if errors.Is(err, domain.ErrSessionInvalid) {
			return true
		}
	}
	return false
}

// lastGood returns the previously published ViewModel with the error
// message attached, or an empty one when nothing was ever published.
func (s *DashboardService) lastGood(ctx context.Context, sid string, cause error) domain.ViewModel {
	vm, ok, err := s.cache.Get(ctx, sid)
	if err != nil || !ok {
		vm = domain.EmptyViewModel()
	}
	vm.Error = errorMessage(cause)
	return vm
}

// errorMessage maps a fetch failure to the banner text shown on the
// dashboard.
func errorMessage(err error) string {
	var rf *domain.RequestFailedError
	if errors.As(err, &rf) && rf.Message != "" {
		return rf.Message
	}
	var ne *domain.NetworkError
	if errors.As(err, &ne) {
		return "no connection to the policy service"
	}
	return "could not load dashboard data"
}
