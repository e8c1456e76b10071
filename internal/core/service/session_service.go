package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/aymaseguros/portal-api/internal/api/metrics"
	"github.com/aymaseguros/portal-api/internal/core/domain"
	"github.com/aymaseguros/portal-api/internal/core/ports"
)

// SessionService owns login, restore, logout, and forced teardown.
// It is the single writer of the SessionStore; every other component
// receives sessions read-only.
type SessionService struct {
	core       ports.CoreAPI
	store      ports.SessionStore
	cache      ports.ViewModelCache
	audit      ports.AuditRepository
	jwtSecret  string
	sessionTTL time.Duration
	logger     zerolog.Logger

	// Coalesces duplicate login attempts: while one attempt is in
	// flight, a concurrent attempt with the same credentials shares
	// its outcome. The key covers email and password, so an attempt
	// with a different password never joins another caller's flight.
	inflight singleflight.Group

	// warm, when set, runs a first aggregation pass for a freshly
	// created session so the dashboard is ready by the time the
	// browser asks for it. Fire-and-forget: login never blocks on it.
	warm func(ctx context.Context, session domain.Session)
}

// SetWarmup installs the post-login dashboard warm-up hook. Wired at
// startup; avoids a construction cycle between the session and
// dashboard services.
func (s *SessionService) SetWarmup(fn func(ctx context.Context, session domain.Session)) {
	s.warm = fn
}

func NewSessionService(core ports.CoreAPI, store ports.SessionStore, cache ports.ViewModelCache, audit ports.AuditRepository, jwtSecret string, sessionTTL time.Duration, logger zerolog.Logger) *SessionService {
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &SessionService{
		core:       core,
		store:      store,
		cache:      cache,
		audit:      audit,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Login authenticates against the core API and, on success, persists a
// new session and mints the portal JWT. A failed attempt leaves no
// session fragments behind.
func (s *SessionService) Login(ctx context.Context, email, password string) (*ports.LoginOutput, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	v, err, _ := s.inflight.Do(loginKey(email, password), func() (any, error) {
		return s.login(ctx, email, password)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ports.LoginOutput), nil
}

func (s *SessionService) login(ctx context.Context, email, password string) (*ports.LoginOutput, error) {
	res, err := s.core.Login(ctx, email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		s.recordAudit(ctx, ports.AuditEntry{Email: email, Event: ports.AuditLoginFailed, Reason: err.Error()})
		return nil, err
	}

	if res.Email != "" {
		email = res.Email
	}
	profile := domain.NewUserProfile(email, res.RawRole, "")

	sid, err := newSessionID()
	if err != nil {
		return nil, err
	}

	session := domain.Session{ID: sid, Token: res.AccessToken, User: &profile}
	if err := s.store.Save(ctx, session); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to persist session")
		return nil, err
	}

	token, err := s.mintToken(sid, profile)
	if err != nil {
		// Session without a presentable token is useless; roll back.
		_ = s.store.Clear(ctx, sid)
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	s.recordAudit(ctx, ports.AuditEntry{Email: email, Event: ports.AuditLoginOK})
	s.logger.Info().Str("email", email).Str("role", profile.Role).Msg("login")

	if s.warm != nil {
		go func() {
			warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			s.warm(warmCtx, session)
		}()
	}

	return &ports.LoginOutput{Token: token, User: profile}, nil
}

// Restore loads the session for sid. An empty session means the user
// is unauthenticated (expired, logged out, or torn down).
func (s *SessionService) Restore(ctx context.Context, sid string) (domain.Session, error) {
	return s.store.Load(ctx, sid)
}

// Logout clears the session and its cached dashboard synchronously, so
// no stale data survives the session. Logging out twice is a no-op the
// second time.
func (s *SessionService) Logout(ctx context.Context, sid string) error {
	return s.clear(ctx, sid, ports.AuditLogout, "")
}

// Teardown is the forced variant of Logout, triggered when the core
// API rejects the session's bearer token.
func (s *SessionService) Teardown(ctx context.Context, sid, reason string) error {
	metrics.SessionTeardownsTotal.Inc()
	return s.clear(ctx, sid, ports.AuditTeardown, reason)
}

func (s *SessionService) clear(ctx context.Context, sid, event, reason string) error {
	session, err := s.store.Load(ctx, sid)
	if err != nil {
		return err
	}

	if err := s.cache.Drop(ctx, sid); err != nil {
		s.logger.Warn().Err(err).Msg("failed to drop cached dashboard")
	}
	if err := s.store.Clear(ctx, sid); err != nil {
		return err
	}

	if !session.IsZero() {
		s.recordAudit(ctx, ports.AuditEntry{Email: session.User.Email, Event: event, Reason: reason})
		s.logger.Info().Str("email", session.User.Email).Str("event", event).Msg("session cleared")
	}
	return nil
}

// mintToken issues the portal JWT the browser presents on subsequent
// requests. The core API bearer token never leaves the server side.
func (s *SessionService) mintToken(sid string, user domain.UserProfile) (string, error) {
	claims := jwt.MapClaims{
		"sid":   sid,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(s.sessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *SessionService) recordAudit(ctx context.Context, entry ports.AuditEntry) {
	if s.audit == nil {
		return
	}
	entry.At = time.Now().UTC()
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("event", entry.Event).Msg("audit write failed")
	}
}

// loginKey derives the coalescing key for a login attempt. Only
// attempts carrying the exact same credentials may share an outcome;
// hashing also keeps the password out of the in-flight map.
func loginKey(email, password string) string {
	h := sha256.Sum256([]byte(strings.ToLower(email) + "\x00" + password))
	return hex.EncodeToString(h[:])
}

// newSessionID returns 32 bytes of cryptographically secure random
// data, URL-safe base64 encoded.
func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
