package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/aymaseguros/portal-api/internal/core/domain"
	"github.com/aymaseguros/portal-api/internal/core/ports"
)

type stubSessions struct {
	loginFn   func(ctx context.Context, email, password string) (*ports.LoginOutput, error)
	logouts   []string
	teardowns []string
}

func (s *stubSessions) Login(ctx context.Context, email, password string) (*ports.LoginOutput, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubSessions) Restore(context.Context, string) (domain.Session, error) {
	return domain.Session{}, nil
}

func (s *stubSessions) Logout(_ context.Context, sid string) error {
	s.logouts = append(s.logouts, sid)
	return nil
}

func (s *stubSessions) Teardown(_ context.Context, sid, _ string) error {
	s.teardowns = append(s.teardowns, sid)
	return nil
}

func newTestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withSession(c echo.Context, role string) domain.Session {
	user := domain.UserProfile{Email: "x@ayma.com", Role: role, DisplayName: "x"}
	session := domain.Session{ID: "sid-1", Token: "tok-1", User: &user}
	c.Set("session", session)
	return session
}

func TestAuthHandler_Login_Success(t *testing.T) {
	sessions := &stubSessions{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginOutput, error) {
			if email != "cliente@ayma.com" || password != "cliente123" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return &ports.LoginOutput{
				Token: "portal-jwt",
				User:  domain.UserProfile{Email: email, Role: domain.RoleClient, DisplayName: "cliente"},
			}, nil
		},
	}
	h := NewAuthHandler(sessions)

	c, rec := newTestContext(http.MethodPost, "/api/v1/auth/login",
		`{"email":"cliente@ayma.com","password":"cliente123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res struct {
		Token string             `json:"token"`
		User  domain.UserProfile `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if res.Token != "portal-jwt" || res.User.Role != domain.RoleClient {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestAuthHandler_Login_ValidationErrors(t *testing.T) {
	h := NewAuthHandler(&stubSessions{
		loginFn: func(context.Context, string, string) (*ports.LoginOutput, error) {
			t.Fatal("invalid payload must never reach the session service")
			return nil, nil
		},
	})

	for _, body := range []string{
		`{"password":"pw"}`,
		`{"email":"not-an-email","password":"pw"}`,
		`{"email":"a@b.com"}`,
	} {
		c, rec := newTestContext(http.MethodPost, "/api/v1/auth/login", body)
		if err := h.Login(c); err != nil {
			t.Fatalf("validation errors are JSON responses, got %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAuthHandler_Login_BadCredentialsPropagate(t *testing.T) {
	h := NewAuthHandler(&stubSessions{
		loginFn: func(context.Context, string, string) (*ports.LoginOutput, error) {
			return nil, domain.ErrInvalidCredentials
		},
	})

	c, _ := newTestContext(http.MethodPost, "/api/v1/auth/login",
		`{"email":"ghost@ayma.com","password":"wrong"}`)
	// The central error handler maps this to 401; the handler just
	// hands the sentinel through.
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	sessions := &stubSessions{}
	h := NewAuthHandler(sessions)

	c, rec := newTestContext(http.MethodPost, "/api/v1/auth/logout", "")
	session := withSession(c, domain.RoleClient)

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(sessions.logouts) != 1 || sessions.logouts[0] != session.ID {
		t.Fatalf("expected logout of %q, got %v", session.ID, sessions.logouts)
	}
}

func TestAuthHandler_Session(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})

	c, rec := newTestContext(http.MethodGet, "/api/v1/auth/session", "")
	withSession(c, domain.RoleAdmin)

	if err := h.Session(c); err != nil {
		t.Fatalf("session lookup failed: %v", err)
	}
	var user domain.UserProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected profile: %+v", user)
	}
}

func TestAuthHandler_Session_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})

	c, _ := newTestContext(http.MethodGet, "/api/v1/auth/session", "")
	err := h.Session(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
