// Package redis provides the persistent, TTL-bound implementation of
// the docdex session store.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docdex/docdex"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces session keys in the shared keyspace.
const keyPrefix = "docdex:session:"

// Compile-time interface verification.
var _ docdex.SessionService = (*SessionService)(nil)

// SessionService implements docdex.SessionService on Redis. Sessions
// are stored as JSON values under a TTL that is renewed on every read
// and write, giving the sliding expiry semantics.
//
// Mutations are read-modify-write on a single key; concurrent mutations
// of the same session resolve last-writer-wins, which is acceptable at
// per-session granularity since sessions are single-user. Multi-tab use
// of one session can lose individual updates.
type SessionService struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// Option configures a SessionService.
type Option func(*SessionService)

// WithTTL overrides the sliding expiry window. Defaults to
// docdex.SessionTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *SessionService) {
		s.ttl = ttl
	}
}

// NewSessionService creates a SessionService over the given client.
func NewSessionService(rdb *redis.Client, opts ...Option) *SessionService {
	s := &SessionService{
		rdb: rdb,
		ttl: docdex.SessionTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping verifies the backing store is reachable.
func (s *SessionService) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// GetOrCreate implements docdex.SessionService.
func (s *SessionService) GetOrCreate(ctx context.Context, ownerID, scopeID, sessionID string) (*docdex.SearchSession, error) {
	if sessionID != "" {
		session, err := s.load(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if session != nil {
			session.Touch(s.now())
			if err := s.save(ctx, session); err != nil {
				return nil, err
			}
			return session, nil
		}
	}

	session := docdex.NewSearchSession(uuid.New().String(), ownerID, scopeID, s.now())
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// AddShownResults implements docdex.SessionService.
func (s *SessionService) AddShownResults(ctx context.Context, sessionID string, ids []string) error {
	return s.mutate(ctx, sessionID, func(session *docdex.SearchSession) {
		session.AddShownResults(ids)
	})
}

// AddQuery implements docdex.SessionService.
func (s *SessionService) AddQuery(ctx context.Context, sessionID, query string, resultCount int) error {
	return s.mutate(ctx, sessionID, func(session *docdex.SearchSession) {
		session.AddQuery(query, resultCount, s.now())
	})
}

// TrackClick implements docdex.SessionService.
func (s *SessionService) TrackClick(ctx context.Context, sessionID, resultID string) error {
	return s.mutate(ctx, sessionID, func(session *docdex.SearchSession) {
		session.TrackClick(resultID)
	})
}

// Stats implements docdex.SessionService.
func (s *SessionService) Stats(ctx context.Context, sessionID string) (*docdex.SessionStats, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "session not found")
	}
	stats := session.Stats()
	return &stats, nil
}

// Delete implements docdex.SessionService.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, keyPrefix+sessionID).Err()
}

// mutate loads, applies fn, and re-persists the full session value with
// a renewed TTL. Mutations of missing sessions are dropped silently.
func (s *SessionService) mutate(ctx context.Context, sessionID string, fn func(*docdex.SearchSession)) error {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	fn(session)
	session.Touch(s.now())
	return s.save(ctx, session)
}

// load fetches a session, renewing its TTL. Returns (nil, nil) for
// missing or expired sessions.
func (s *SessionService) load(ctx context.Context, sessionID string) (*docdex.SearchSession, error) {
	data, err := s.rdb.GetEx(ctx, keyPrefix+sessionID, s.ttl).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, docdex.Errorf(docdex.EUNAVAILABLE, "session store read failed: %v", err)
	}

	var session docdex.SearchSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", sessionID, err)
	}
	if session.Expired(s.now()) {
		return nil, nil
	}
	return &session, nil
}

// save persists the full session value with a renewed TTL.
func (s *SessionService) save(ctx context.Context, session *docdex.SearchSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", session.ID, err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+session.ID, data, s.ttl).Err(); err != nil {
		return docdex.Errorf(docdex.EUNAVAILABLE, "session store write failed: %v", err)
	}
	return nil
}
