package ports

import (
	"context"

	"github.com/aymaseguros/portal-api/internal/core/domain"
)

// LoginOutput is returned to the handler after a successful login.
// Token is the portal-issued JWT the browser presents on subsequent
// requests; it is distinct from the core API bearer token held inside
// the session.
type LoginOutput struct {
	Token string
	User  domain.UserProfile
}

// SessionService owns the session lifecycle. It is the only component
// that touches the SessionStore directly; everything else receives the
// session read-only per call.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*LoginOutput, error)
	// Restore loads the session for sid. An empty session means
	// unauthenticated; the caller decides how to reject.
	Restore(ctx context.Context, sid string) (domain.Session, error)
	// Logout clears the session and its cached dashboard. Idempotent.
	Logout(ctx context.Context, sid string) error
	// Teardown is Logout triggered by the core API rejecting the
	// session token (401 on any authenticated call).
	Teardown(ctx context.Context, sid, reason string) error
}
