// Package mem provides in-memory implementations of the docdex session
// store: a standalone ephemeral store and a fallback decorator that
// degrades to it when a persistent store is unavailable.
package mem

import (
	"context"
	"sync"
	"time"

	"github.com/docdex/docdex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docdex.SessionService = (*SessionService)(nil)

// SessionService is an in-memory docdex.SessionService. Sessions live
// only for the process lifetime and expire lazily on access after the
// sliding TTL. Safe for concurrent use.
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*docdex.SearchSession
	now      func() time.Time
}

// NewSessionService creates an empty in-memory session store.
func NewSessionService() *SessionService {
	return &SessionService{
		sessions: make(map[string]*docdex.SearchSession),
		now:      time.Now,
	}
}

// SetNowFunc overrides the clock (for tests).
func (s *SessionService) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// GetOrCreate implements docdex.SessionService.
func (s *SessionService) GetOrCreate(ctx context.Context, ownerID, scopeID, sessionID string) (*docdex.SearchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sessionID != "" {
		if session, ok := s.sessions[sessionID]; ok {
			if session.Expired(now) {
				delete(s.sessions, sessionID)
			} else {
				session.Touch(now)
				return cloneSession(session), nil
			}
		}
	}

	session := docdex.NewSearchSession(uuid.New().String(), ownerID, scopeID, now)
	s.sessions[session.ID] = session
	return cloneSession(session), nil
}

// AddShownResults implements docdex.SessionService.
func (s *SessionService) AddShownResults(ctx context.Context, sessionID string, ids []string) error {
	return s.mutate(sessionID, func(session *docdex.SearchSession) {
		session.AddShownResults(ids)
	})
}

// AddQuery implements docdex.SessionService.
func (s *SessionService) AddQuery(ctx context.Context, sessionID, query string, resultCount int) error {
	return s.mutate(sessionID, func(session *docdex.SearchSession) {
		session.AddQuery(query, resultCount, s.now())
	})
}

// TrackClick implements docdex.SessionService.
func (s *SessionService) TrackClick(ctx context.Context, sessionID, resultID string) error {
	return s.mutate(sessionID, func(session *docdex.SearchSession) {
		session.TrackClick(resultID)
	})
}

// Stats implements docdex.SessionService.
func (s *SessionService) Stats(ctx context.Context, sessionID string) (*docdex.SessionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok || session.Expired(s.now()) {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "session not found")
	}
	stats := session.Stats()
	return &stats, nil
}

// Delete implements docdex.SessionService.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// mutate applies fn to a live session and refreshes its sliding TTL.
// Mutations of missing or expired sessions are dropped silently; dedup
// state is best effort by design.
func (s *SessionService) mutate(sessionID string, fn func(*docdex.SearchSession)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	now := s.now()
	if session.Expired(now) {
		delete(s.sessions, sessionID)
		return nil
	}
	fn(session)
	session.Touch(now)
	return nil
}

// cloneSession copies a session so callers never share mutable state
// with the store.
func cloneSession(session *docdex.SearchSession) *docdex.SearchSession {
	clone := *session
	clone.ShownResultIDs = make(map[string]bool, len(session.ShownResultIDs))
	for id := range session.ShownResultIDs {
		clone.ShownResultIDs[id] = true
	}
	clone.QueryHistory = make([]docdex.QueryRecord, len(session.QueryHistory))
	copy(clone.QueryHistory, session.QueryHistory)
	for i, q := range session.QueryHistory {
		clone.QueryHistory[i].ClickedResultIDs = append([]string(nil), q.ClickedResultIDs...)
	}
	return &clone
}
