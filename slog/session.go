package slog

import (
	"context"
	"log/slog"

	"github.com/docdex/docdex"
)

// Ensure LoggingSessionService implements docdex.SessionService.
var _ docdex.SessionService = (*LoggingSessionService)(nil)

// LoggingSessionService wraps a SessionService with debug logging.
type LoggingSessionService struct {
	next   docdex.SessionService
	logger *slog.Logger
}

// NewLoggingSessionService creates a new LoggingSessionService.
func NewLoggingSessionService(next docdex.SessionService, logger *slog.Logger) *LoggingSessionService {
	return &LoggingSessionService{next: next, logger: logger}
}

// GetOrCreate delegates to the wrapped service and logs session churn.
func (s *LoggingSessionService) GetOrCreate(ctx context.Context, ownerID, scopeID, sessionID string) (*docdex.SearchSession, error) {
	session, err := s.next.GetOrCreate(ctx, ownerID, scopeID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ID != sessionID {
		s.logger.Debug("session created", "session", session.ID, "owner", ownerID)
	}
	return session, nil
}

// AddShownResults delegates to the wrapped service.
func (s *LoggingSessionService) AddShownResults(ctx context.Context, sessionID string, ids []string) error {
	return s.next.AddShownResults(ctx, sessionID, ids)
}

// AddQuery delegates to the wrapped service and logs the query.
func (s *LoggingSessionService) AddQuery(ctx context.Context, sessionID, query string, resultCount int) error {
	s.logger.Debug("session query", "session", sessionID, "query", query, "results", resultCount)
	return s.next.AddQuery(ctx, sessionID, query, resultCount)
}

// TrackClick delegates to the wrapped service.
func (s *LoggingSessionService) TrackClick(ctx context.Context, sessionID, resultID string) error {
	return s.next.TrackClick(ctx, sessionID, resultID)
}

// Stats delegates to the wrapped service.
func (s *LoggingSessionService) Stats(ctx context.Context, sessionID string) (*docdex.SessionStats, error) {
	return s.next.Stats(ctx, sessionID)
}

// Delete delegates to the wrapped service.
func (s *LoggingSessionService) Delete(ctx context.Context, sessionID string) error {
	return s.next.Delete(ctx, sessionID)
}
