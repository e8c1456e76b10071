package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aymaseguros/portal-api/internal/core/domain"
	"github.com/aymaseguros/portal-api/internal/core/ports"
)

type stubSessions struct {
	restoreFn func(ctx context.Context, sid string) (domain.Session, error)
	teardowns []string
}

func (s *stubSessions) Login(context.Context, string, string) (*ports.LoginOutput, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubSessions) Restore(ctx context.Context, sid string) (domain.Session, error) {
	return s.restoreFn(ctx, sid)
}

func (s *stubSessions) Logout(context.Context, string) error { return nil }

func (s *stubSessions) Teardown(_ context.Context, sid, _ string) error {
	s.teardowns = append(s.teardowns, sid)
	return nil
}

func clientSession() domain.Session {
	user := domain.UserProfile{Email: "cliente@ayma.com", Role: domain.RoleClient}
	return domain.Session{ID: "sid-c", Token: "tok-c", User: &user}
}

func adminSession() domain.Session {
	user := domain.UserProfile{Email: "admin@ayma.com", Role: domain.RoleAdmin}
	return domain.Session{ID: "sid-a", Token: "tok-a", User: &user}
}

// restoreSame answers Restore with the given session, as if nothing
// changed while fetches were in flight.
func restoreSame(session domain.Session) *stubSessions {
	return &stubSessions{
		restoreFn: func(_ context.Context, sid string) (domain.Session, error) {
			if sid == session.ID {
				return session, nil
			}
			return domain.Session{}, nil
		},
	}
}

func happyCoreAPI() (*stubCoreAPI, *atomic.Bool) {
	adminCalled := &atomic.Bool{}
	core := &stubCoreAPI{
		summaryFn: func(context.Context, string) (json.RawMessage, error) {
			return json.RawMessage(`{"polizas_activas":2}`), nil
		},
		policiesFn: func(context.Context, string) ([]domain.Policy, error) {
			return []domain.Policy{
				{PolicyNumber: "POL-1", TotalPremium: 50000, Status: domain.PolicyActive},
				{PolicyNumber: "POL-2", TotalPremium: 30000, Status: domain.PolicyOther},
			}, nil
		},
		vehiclesFn: func(context.Context, string) ([]domain.Vehicle, error) {
			return []domain.Vehicle{{Plate: "AB123CD", Brand: "Toyota"}}, nil
		},
		adminClientsFn: func(context.Context, string) ([]domain.Client, error) {
			adminCalled.Store(true)
			return []domain.Client{{Name: "ACME SA", Active: true}}, nil
		},
	}
	return core, adminCalled
}

func TestDashboard_ClientRole_SkipsAdminFetch(t *testing.T) {
	core, adminCalled := happyCoreAPI()
	session := clientSession()
	cache := newMemCache()
	svc := NewDashboardService(core, restoreSame(session), cache, zerolog.Nop())

	vm, err := svc.Aggregate(context.Background(), session)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}

	if adminCalled.Load() {
		t.Fatal("admin client list must not be fetched for the client role")
	}
	if vm.TotalPremium != 80000 {
		t.Fatalf("expected derived total premium 80000, got %v", vm.TotalPremium)
	}
	if len(vm.Policies) != 2 || len(vm.Vehicles) != 1 {
		t.Fatalf("unexpected view model: %+v", vm)
	}
	if vm.Clients == nil || len(vm.Clients) != 0 {
		t.Fatalf("client role must get an empty (not nil) client list: %+v", vm.Clients)
	}
	if vm.Error != "" {
		t.Fatalf("unexpected error on success: %q", vm.Error)
	}

	if cached, ok, _ := cache.Get(context.Background(), session.ID); !ok || cached.TotalPremium != 80000 {
		t.Fatal("successful pass must be published to the cache")
	}
}

func TestDashboard_AdminRole_FetchesClients(t *testing.T) {
	core, adminCalled := happyCoreAPI()
	session := adminSession()
	svc := NewDashboardService(core, restoreSame(session), newMemCache(), zerolog.Nop())

	vm, err := svc.Aggregate(context.Background(), session)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if !adminCalled.Load() {
		t.Fatal("admin role must fetch the client list")
	}
	if len(vm.Clients) != 1 || vm.Clients[0].Name != "ACME SA" {
		t.Fatalf("unexpected clients: %+v", vm.Clients)
	}
}

func TestDashboard_BestEffortClientList(t *testing.T) {
	core, _ := happyCoreAPI()
	core.adminClientsFn = func(context.Context, string) ([]domain.Client, error) {
		return nil, &domain.NetworkError{Err: errors.New("connection refused")}
	}
	session := adminSession()
	svc := NewDashboardService(core, restoreSame(session), newMemCache(), zerolog.Nop())

	vm, err := svc.Aggregate(context.Background(), session)
	if err != nil {
		t.Fatalf("best-effort failure must not fail the pass: %v", err)
	}
	if len(vm.Clients) != 0 {
		t.Fatalf("expected empty client list, got %+v", vm.Clients)
	}
	if vm.Error != "" {
		t.Fatalf("best-effort failure must not set the error banner, got %q", vm.Error)
	}
	if vm.TotalPremium != 80000 {
		t.Fatalf("required data must still be published, got %+v", vm)
	}
}

func TestDashboard_RequiredFailure_KeepsLastGood(t *testing.T) {
	core, _ := happyCoreAPI()
	core.policiesFn = func(context.Context, string) ([]domain.Policy, error) {
		return nil, &domain.RequestFailedError{Status: 503, Message: "servicio en mantenimiento"}
	}
	session := clientSession()
	cache := newMemCache()

	lastGood := domain.EmptyViewModel()
	lastGood.Policies = []domain.Policy{{PolicyNumber: "OLD-1", TotalPremium: 1000}}
	lastGood.TotalPremium = 1000
	_ = cache.Put(context.Background(), session.ID, lastGood)

	svc := NewDashboardService(core, restoreSame(session), cache, zerolog.Nop())

	vm, err := svc.Aggregate(context.Background(), session)
	if err != nil {
		t.Fatalf("required failure surfaces in the view model, not as an error: %v", err)
	}
	if vm.Error != "servicio en mantenimiento" {
		t.Fatalf("expected upstream detail in error banner, got %q", vm.Error)
	}
	if len(vm.Policies) != 1 || vm.Policies[0].PolicyNumber != "OLD-1" {
		t.Fatalf("prior data must survive a failed pass: %+v", vm.Policies)
	}

	cached, _, _ := cache.Get(context.Background(), session.ID)
	if cached.Error != "" {
		t.Fatal("the cached model must stay clean; only the returned copy carries the error")
	}
}

func TestDashboard_RequiredFailure_NoLastGood(t *testing.T) {
	core, _ := happyCoreAPI()
	core.summaryFn = func(context.Context, string) (json.RawMessage, error) {
		return nil, &domain.NetworkError{Err: errors.New("timeout")}
	}
	session := clientSession()
	svc := NewDashboardService(core, restoreSame(session), newMemCache(), zerolog.Nop())

	vm, err := svc.Aggregate(context.Background(), session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vm.Error == "" {
		t.Fatal("expected connectivity error banner")
	}
	if len(vm.Policies) != 0 || len(vm.Vehicles) != 0 {
		t.Fatalf("expected empty model when nothing was ever published: %+v", vm)
	}
}

func TestDashboard_SessionInvalid_TearsDown(t *testing.T) {
	core, _ := happyCoreAPI()
	core.vehiclesFn = func(context.Context, string) ([]domain.Vehicle, error) {
		return nil, domain.ErrSessionInvalid
	}
	session := clientSession()
	sessions := restoreSame(session)
	svc := NewDashboardService(core, sessions, newMemCache(), zerolog.Nop())

	_, err := svc.Aggregate(context.Background(), session)
	if !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
	if len(sessions.teardowns) != 1 || sessions.teardowns[0] != session.ID {
		t.Fatalf("expected teardown of %q, got %v", session.ID, sessions.teardowns)
	}
}

func TestDashboard_SessionInvalid_OnBestEffortFetch(t *testing.T) {
	core, _ := happyCoreAPI()
	core.adminClientsFn = func(context.Context, string) ([]domain.Client, error) {
		return nil, domain.ErrSessionInvalid
	}
	session := adminSession()
	sessions := restoreSame(session)
	svc := NewDashboardService(core, sessions, newMemCache(), zerolog.Nop())

	if _, err := svc.Aggregate(context.Background(), session); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("a rejected token aborts even on the best-effort fetch, got %v", err)
	}
	if len(sessions.teardowns) != 1 {
		t.Fatalf("expected one teardown, got %v", sessions.teardowns)
	}
}

func TestDashboard_SessionInvalid_WinsOverOtherFailures(t *testing.T) {
	core, _ := happyCoreAPI()
	failed := make(chan struct{})
	core.policiesFn = func(context.Context, string) ([]domain.Policy, error) {
		close(failed)
		return nil, &domain.RequestFailedError{Status: 503, Message: "servicio en mantenimiento"}
	}
	core.vehiclesFn = func(context.Context, string) ([]domain.Vehicle, error) {
		// Return the 401 only after the ordinary failure is already in.
		<-failed
		return nil, domain.ErrSessionInvalid
	}
	session := clientSession()
	sessions := restoreSame(session)
	svc := NewDashboardService(core, sessions, newMemCache(), zerolog.Nop())

	if _, err := svc.Aggregate(context.Background(), session); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("a rejected token must classify the pass even when another fetch failed first, got %v", err)
	}
	if len(sessions.teardowns) != 1 || sessions.teardowns[0] != session.ID {
		t.Fatalf("expected teardown of %q, got %v", session.ID, sessions.teardowns)
	}
}

func TestDashboard_DiscardsResultsForStaleSession(t *testing.T) {
	core, _ := happyCoreAPI()
	session := clientSession()
	// Session disappeared (logout) while fetches were in flight.
	sessions := &stubSessions{
		restoreFn: func(context.Context, string) (domain.Session, error) {
			return domain.Session{}, nil
		},
	}
	cache := newMemCache()
	svc := NewDashboardService(core, sessions, cache, zerolog.Nop())

	if _, err := svc.Aggregate(context.Background(), session); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("stale results must be discarded, got %v", err)
	}
	if _, ok, _ := cache.Get(context.Background(), session.ID); ok {
		t.Fatal("stale results must never be published")
	}
}

func TestDashboard_RequiresSession(t *testing.T) {
	core, _ := happyCoreAPI()
	svc := NewDashboardService(core, &stubSessions{}, newMemCache(), zerolog.Nop())

	if _, err := svc.Aggregate(context.Background(), domain.Session{}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
