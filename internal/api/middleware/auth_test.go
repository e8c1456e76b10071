package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/aymaseguros/portal-api/internal/core/domain"
	"github.com/aymaseguros/portal-api/internal/core/ports"
)

const testSecret = "test-secret"

type stubSessions struct {
	restoreFn func(ctx context.Context, sid string) (domain.Session, error)
}

func (s *stubSessions) Login(context.Context, string, string) (*ports.LoginOutput, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubSessions) Restore(ctx context.Context, sid string) (domain.Session, error) {
	if s.restoreFn != nil {
		return s.restoreFn(ctx, sid)
	}
	return domain.Session{}, nil
}

func (s *stubSessions) Logout(context.Context, string) error       { return nil }
func (s *stubSessions) Teardown(context.Context, string, string) error { return nil }

func mintToken(t *testing.T, sid string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":   sid,
		"email": "cliente@ayma.com",
		"role":  domain.RoleClient,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, authHeader string, sessions ports.SessionService) (int, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Auth(testSecret, sessions)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	if err == nil {
		return rec.Code, c
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("unexpected error type: %v", err)
	}
	return he.Code, c
}

func TestAuth_MissingHeader(t *testing.T) {
	code, _ := runAuth(t, "", &stubSessions{})
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	code, _ := runAuth(t, "Basic abc123", &stubSessions{})
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuth_BadSignature(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sid": "sid-1"})
	signed, _ := token.SignedString([]byte("other-secret"))

	code, _ := runAuth(t, "Bearer "+signed, &stubSessions{})
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuth_SessionGone(t *testing.T) {
	// Valid token but the session was torn down; the persisted token is
	// worthless and the caller must re-authenticate.
	code, _ := runAuth(t, "Bearer "+mintToken(t, "sid-gone"), &stubSessions{})
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuth_RestoresSession(t *testing.T) {
	user := domain.UserProfile{Email: "cliente@ayma.com", Role: domain.RoleClient}
	sessions := &stubSessions{
		restoreFn: func(_ context.Context, sid string) (domain.Session, error) {
			if sid != "sid-1" {
				t.Fatalf("unexpected sid: %q", sid)
			}
			return domain.Session{ID: sid, Token: "core-tok", User: &user}, nil
		},
	}

	code, c := runAuth(t, "Bearer "+mintToken(t, "sid-1"), sessions)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	session, ok := SessionFrom(c)
	if !ok || session.Token != "core-tok" {
		t.Fatalf("session not injected into context: %+v", session)
	}
}
