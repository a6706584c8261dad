package mock

import (
	"context"

	"github.com/docdex/docdex"
)

var _ docdex.SourceService = (*SourceService)(nil)

// SourceService is a mock implementation of docdex.SourceService.
type SourceService struct {
	CreateSourceFn   func(ctx context.Context, source *docdex.Source) error
	FindSourceByIDFn func(ctx context.Context, id string) (*docdex.Source, error)
	FindSourcesFn    func(ctx context.Context, accountID string) ([]*docdex.Source, error)
	CountSourcesFn   func(ctx context.Context, accountID string) (int, error)
	DeleteSourceFn   func(ctx context.Context, id string) error
}

func (s *SourceService) CreateSource(ctx context.Context, source *docdex.Source) error {
	return s.CreateSourceFn(ctx, source)
}

func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*docdex.Source, error) {
	return s.FindSourceByIDFn(ctx, id)
}

func (s *SourceService) FindSources(ctx context.Context, accountID string) ([]*docdex.Source, error) {
	return s.FindSourcesFn(ctx, accountID)
}

func (s *SourceService) CountSources(ctx context.Context, accountID string) (int, error) {
	return s.CountSourcesFn(ctx, accountID)
}

func (s *SourceService) DeleteSource(ctx context.Context, id string) error {
	return s.DeleteSourceFn(ctx, id)
}

var _ docdex.WorkspaceService = (*WorkspaceService)(nil)

// WorkspaceService is a mock implementation of docdex.WorkspaceService.
type WorkspaceService struct {
	CreateWorkspaceFn func(ctx context.Context, ws *docdex.Workspace) error
	FindWorkspacesFn  func(ctx context.Context, accountID string) ([]*docdex.Workspace, error)
	CountWorkspacesFn func(ctx context.Context, accountID string) (int, error)
	DeleteWorkspaceFn func(ctx context.Context, id string) error
}

func (s *WorkspaceService) CreateWorkspace(ctx context.Context, ws *docdex.Workspace) error {
	return s.CreateWorkspaceFn(ctx, ws)
}

func (s *WorkspaceService) FindWorkspaces(ctx context.Context, accountID string) ([]*docdex.Workspace, error) {
	return s.FindWorkspacesFn(ctx, accountID)
}

func (s *WorkspaceService) CountWorkspaces(ctx context.Context, accountID string) (int, error) {
	return s.CountWorkspacesFn(ctx, accountID)
}

func (s *WorkspaceService) DeleteWorkspace(ctx context.Context, id string) error {
	return s.DeleteWorkspaceFn(ctx, id)
}
