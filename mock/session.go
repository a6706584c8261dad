package mock

import (
	"context"

	"github.com/docdex/docdex"
)

var _ docdex.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of docdex.SessionService.
type SessionService struct {
	GetOrCreateFn     func(ctx context.Context, ownerID, scopeID, sessionID string) (*docdex.SearchSession, error)
	AddShownResultsFn func(ctx context.Context, sessionID string, ids []string) error
	AddQueryFn        func(ctx context.Context, sessionID, query string, resultCount int) error
	TrackClickFn      func(ctx context.Context, sessionID, resultID string) error
	StatsFn           func(ctx context.Context, sessionID string) (*docdex.SessionStats, error)
	DeleteFn          func(ctx context.Context, sessionID string) error
}

func (s *SessionService) GetOrCreate(ctx context.Context, ownerID, scopeID, sessionID string) (*docdex.SearchSession, error) {
	return s.GetOrCreateFn(ctx, ownerID, scopeID, sessionID)
}

func (s *SessionService) AddShownResults(ctx context.Context, sessionID string, ids []string) error {
	return s.AddShownResultsFn(ctx, sessionID, ids)
}

func (s *SessionService) AddQuery(ctx context.Context, sessionID, query string, resultCount int) error {
	return s.AddQueryFn(ctx, sessionID, query, resultCount)
}

func (s *SessionService) TrackClick(ctx context.Context, sessionID, resultID string) error {
	return s.TrackClickFn(ctx, sessionID, resultID)
}

func (s *SessionService) Stats(ctx context.Context, sessionID string) (*docdex.SessionStats, error) {
	return s.StatsFn(ctx, sessionID)
}

func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	return s.DeleteFn(ctx, sessionID)
}
