package docdex

import (
	"context"
	"time"
)

// Session defaults.
const (
	// SessionTTL is the sliding expiry window measured from last access.
	SessionTTL = 3600 * time.Second

	// MaxQueryHistory caps per-session query records; the oldest are
	// evicted first.
	MaxQueryHistory = 20
)

// QueryRecord captures one search within a session. Records are appended
// and never mutated except to add clicked result IDs to the most recent one.
type QueryRecord struct {
	Query            string    `json:"query"`
	Timestamp        time.Time `json:"timestamp"`
	ResultCount      int       `json:"resultCount"`
	ClickedResultIDs []string  `json:"clickedResultIds,omitempty"`
}

// SearchSession holds ephemeral per-session deduplication state. It is
// keyed by ID in a TTL-bound store and expires SessionTTL after the last
// access, not after creation.
type SearchSession struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"ownerId"`
	ScopeID        string          `json:"scopeId"`
	ShownResultIDs map[string]bool `json:"shownResultIds"`
	QueryHistory   []QueryRecord   `json:"queryHistory"`
	CreatedAt      time.Time       `json:"createdAt"`
	LastActivityAt time.Time       `json:"lastActivityAt"`
}

// NewSearchSession creates a session with the given identity.
func NewSearchSession(id, ownerID, scopeID string, now time.Time) *SearchSession {
	return &SearchSession{
		ID:             id,
		OwnerID:        ownerID,
		ScopeID:        scopeID,
		ShownResultIDs: make(map[string]bool),
		CreatedAt:      now,
		LastActivityAt: now,
	}
}

// Expired reports whether the session's sliding TTL has elapsed at now.
func (s *SearchSession) Expired(now time.Time) bool {
	return now.Sub(s.LastActivityAt) > SessionTTL
}

// Touch refreshes the sliding expiry window.
func (s *SearchSession) Touch(now time.Time) {
	s.LastActivityAt = now
}

// AddShownResults unions result IDs into the shown set. Re-adding an
// existing ID is a no-op.
func (s *SearchSession) AddShownResults(ids []string) {
	if s.ShownResultIDs == nil {
		s.ShownResultIDs = make(map[string]bool, len(ids))
	}
	for _, id := range ids {
		s.ShownResultIDs[id] = true
	}
}

// AddQuery appends a query record and truncates the history to the
// MaxQueryHistory most recent entries, dropping the oldest first.
func (s *SearchSession) AddQuery(query string, resultCount int, now time.Time) {
	s.QueryHistory = append(s.QueryHistory, QueryRecord{
		Query:       query,
		Timestamp:   now,
		ResultCount: resultCount,
	})
	if n := len(s.QueryHistory); n > MaxQueryHistory {
		s.QueryHistory = s.QueryHistory[n-MaxQueryHistory:]
	}
}

// TrackClick records a clicked result against the most recent query.
// With no query history the click is dropped; the bool result reports
// whether it was recorded.
func (s *SearchSession) TrackClick(resultID string) bool {
	if len(s.QueryHistory) == 0 {
		return false
	}
	last := &s.QueryHistory[len(s.QueryHistory)-1]
	for _, id := range last.ClickedResultIDs {
		if id == resultID {
			return true
		}
	}
	last.ClickedResultIDs = append(last.ClickedResultIDs, resultID)
	return true
}

// FilterUnseen returns the IDs not yet shown in this session, preserving
// input order.
func (s *SearchSession) FilterUnseen(ids []string) []string {
	unseen := make([]string, 0, len(ids))
	for _, id := range ids {
		if !s.ShownResultIDs[id] {
			unseen = append(unseen, id)
		}
	}
	return unseen
}

// SessionStats aggregates counters derived purely from a stored session.
type SessionStats struct {
	TotalQueries int `json:"totalQueries"`
	TotalResults int `json:"totalResults"`
	UniqueShown  int `json:"uniqueShown"`
	TotalClicks  int `json:"totalClicks"`
}

// Stats derives aggregate counters from the session.
func (s *SearchSession) Stats() SessionStats {
	stats := SessionStats{
		TotalQueries: len(s.QueryHistory),
		UniqueShown:  len(s.ShownResultIDs),
	}
	for _, q := range s.QueryHistory {
		stats.TotalResults += q.ResultCount
		stats.TotalClicks += len(q.ClickedResultIDs)
	}
	return stats
}

// SessionService manages TTL-bound search sessions.
//
// Mutations follow a read-modify-write pattern on a single session key;
// concurrent mutations of the same session resolve last-writer-wins.
// Sessions are single-user and in practice single-browser-tab, so this
// is an accepted limitation under multi-tab use.
type SessionService interface {
	// GetOrCreate returns the session for sessionID when it exists and
	// has not expired, refreshing its sliding TTL. Otherwise it creates
	// a session with a fresh identifier.
	GetOrCreate(ctx context.Context, ownerID, scopeID, sessionID string) (*SearchSession, error)

	// AddShownResults unions result IDs into the session's shown set.
	AddShownResults(ctx context.Context, sessionID string, ids []string) error

	// AddQuery appends a query record, keeping the most recent
	// MaxQueryHistory entries.
	AddQuery(ctx context.Context, sessionID, query string, resultCount int) error

	// TrackClick records a click against the most recent query record.
	// Without query history the click is silently dropped.
	TrackClick(ctx context.Context, sessionID, resultID string) error

	// Stats derives aggregate counters for the session.
	// Returns ENOTFOUND if the session does not exist.
	Stats(ctx context.Context, sessionID string) (*SessionStats, error)

	// Delete removes the session.
	Delete(ctx context.Context, sessionID string) error
}
