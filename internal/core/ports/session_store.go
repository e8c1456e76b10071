package ports

import (
	"context"

	"github.com/aymaseguros/portal-api/internal/core/domain"
)

// SessionStore persists portal sessions across requests. Token and
// profile are written together and cleared together: no reader may
// observe one without the other.
type SessionStore interface {
	// Save writes the session atomically under its ID.
	Save(ctx context.Context, session domain.Session) error
	// Load returns the session for sid, or an empty session when no
	// session exists. A stored profile that fails to parse is treated
	// as absent: the corrupted entry is cleared and an empty session
	// returned, never an error.
	Load(ctx context.Context, sid string) (domain.Session, error)
	// Clear removes the session. Clearing a missing session is a no-op.
	Clear(ctx context.Context, sid string) error
}

// ViewModelCache keeps the last successfully published dashboard per
// session, so a failed aggregation pass can surface an error without
// blanking previously-good data.
type ViewModelCache interface {
	Put(ctx context.Context, sid string, vm domain.ViewModel) error
	Get(ctx context.Context, sid string) (domain.ViewModel, bool, error)
	Drop(ctx context.Context, sid string) error
}
