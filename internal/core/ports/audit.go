package ports

import (
	"context"
	"time"
)

// Audit event kinds.
const (
	AuditLoginOK     = "login_ok"
	AuditLoginFailed = "login_failed"
	AuditLogout      = "logout"
	AuditTeardown    = "session_teardown"
)

// AuditEntry records one authentication lifecycle event.
type AuditEntry struct {
	Email  string    `bson:"email"`
	Event  string    `bson:"event"`
	Reason string    `bson:"reason,omitempty"`
	At     time.Time `bson:"at"`
}

// AuditRepository stores the authentication audit trail. Writes are
// best-effort: an audit failure never fails the user-facing operation.
type AuditRepository interface {
	Record(ctx context.Context, entry AuditEntry) error
}
