package mem

import (
	"context"
	"log/slog"

	"github.com/docdex/docdex"
)

// Compile-time interface verification.
var _ docdex.SessionService = (*FallbackSessionService)(nil)

// FallbackSessionService wraps a persistent session store and degrades
// to an in-memory store when it is unavailable. Degradation is silent
// toward callers: search works without cross-call deduplication rather
// than failing. Each degradation is logged once per call.
type FallbackSessionService struct {
	primary  docdex.SessionService
	fallback *SessionService
	logger   *slog.Logger
}

// NewFallbackSessionService creates a FallbackSessionService over the
// given primary store.
func NewFallbackSessionService(primary docdex.SessionService, logger *slog.Logger) *FallbackSessionService {
	return &FallbackSessionService{
		primary:  primary,
		fallback: NewSessionService(),
		logger:   logger,
	}
}

// GetOrCreate returns the primary store's session, or a throwaway
// in-memory session when the primary store is unavailable.
func (s *FallbackSessionService) GetOrCreate(ctx context.Context, ownerID, scopeID, sessionID string) (*docdex.SearchSession, error) {
	session, err := s.primary.GetOrCreate(ctx, ownerID, scopeID, sessionID)
	if err == nil {
		return session, nil
	}
	s.degraded("get_or_create", err)
	return s.fallback.GetOrCreate(ctx, ownerID, scopeID, sessionID)
}

// AddShownResults delegates to the primary store, falling back in-memory.
func (s *FallbackSessionService) AddShownResults(ctx context.Context, sessionID string, ids []string) error {
	if err := s.primary.AddShownResults(ctx, sessionID, ids); err != nil {
		s.degraded("add_shown_results", err)
		return s.fallback.AddShownResults(ctx, sessionID, ids)
	}
	return nil
}

// AddQuery delegates to the primary store, falling back in-memory.
func (s *FallbackSessionService) AddQuery(ctx context.Context, sessionID, query string, resultCount int) error {
	if err := s.primary.AddQuery(ctx, sessionID, query, resultCount); err != nil {
		s.degraded("add_query", err)
		return s.fallback.AddQuery(ctx, sessionID, query, resultCount)
	}
	return nil
}

// TrackClick delegates to the primary store, falling back in-memory.
func (s *FallbackSessionService) TrackClick(ctx context.Context, sessionID, resultID string) error {
	if err := s.primary.TrackClick(ctx, sessionID, resultID); err != nil {
		s.degraded("track_click", err)
		return s.fallback.TrackClick(ctx, sessionID, resultID)
	}
	return nil
}

// Stats delegates to the primary store, falling back in-memory.
func (s *FallbackSessionService) Stats(ctx context.Context, sessionID string) (*docdex.SessionStats, error) {
	stats, err := s.primary.Stats(ctx, sessionID)
	if err == nil || docdex.ErrorCode(err) == docdex.ENOTFOUND {
		return stats, err
	}
	s.degraded("stats", err)
	return s.fallback.Stats(ctx, sessionID)
}

// Delete delegates to the primary store, falling back in-memory.
func (s *FallbackSessionService) Delete(ctx context.Context, sessionID string) error {
	if err := s.primary.Delete(ctx, sessionID); err != nil {
		s.degraded("delete", err)
		return s.fallback.Delete(ctx, sessionID)
	}
	return nil
}

func (s *FallbackSessionService) degraded(op string, err error) {
	s.logger.Warn("session store unavailable, using in-memory fallback",
		"op", op,
		"err", err,
	)
}
