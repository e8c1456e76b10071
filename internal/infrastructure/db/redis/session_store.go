package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aymaseguros/portal-api/internal/core/domain"
)

// SessionStore persists sessions in Redis under two keys per session:
//
//	session:<sid>:token — the core API bearer token
//	session:<sid>:user  — the user profile as a JSON blob
//
// Both keys are written in one pipeline and deleted in one call, so no
// reader ever observes a token without a profile or vice versa.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewSessionStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl, logger: logger}
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	if session.IsZero() || session.ID == "" {
		return errors.New("refusing to save partial session")
	}

	profile, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey(session.ID), session.Token, s.ttl)
	pipe.Set(ctx, userKey(session.ID), profile, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the session for sid, or an empty session when either
// key is missing. A profile blob that fails to parse counts as
// corrupted local state: both keys are cleared so subsequent loads are
// consistent, and an empty session is returned without error.
func (s *SessionStore) Load(ctx context.Context, sid string) (domain.Session, error) {
	vals, err := s.client.MGet(ctx, tokenKey(sid), userKey(sid)).Result()
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	token, tokenOK := vals[0].(string)
	blob, userOK := vals[1].(string)
	if !tokenOK || !userOK || token == "" {
		if tokenOK != userOK {
			// Half a session is no session.
			_ = s.Clear(ctx, sid)
		}
		return domain.Session{}, nil
	}

	var user domain.UserProfile
	if err := json.Unmarshal([]byte(blob), &user); err != nil || user.Email == "" {
		s.logger.Warn().Str("sid", sid).Msg("clearing corrupted session profile")
		if cerr := s.Clear(ctx, sid); cerr != nil {
			return domain.Session{}, cerr
		}
		return domain.Session{}, nil
	}

	return domain.Session{ID: sid, Token: token, User: &user}, nil
}

func (s *SessionStore) Clear(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, tokenKey(sid), userKey(sid)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func tokenKey(sid string) string { return "session:" + sid + ":token" }
func userKey(sid string) string  { return "session:" + sid + ":user" }
