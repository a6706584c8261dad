package docdex

import (
	"context"
	"time"
)

// SourceType distinguishes how a source is discovered.
type SourceType string

// Supported source types.
const (
	SourceTypeWeb        SourceType = "web"
	SourceTypeRepository SourceType = "repository"
)

// Source represents a registered documentation source owned by an account.
// The count of an account's sources is the authoritative value for the
// SOURCE quota dimension.
type Source struct {
	ID          string     `json:"id"`
	AccountID   string     `json:"accountId"`
	WorkspaceID string     `json:"workspaceId"`
	Type        SourceType `json:"type"`

	// Ref is the base URL or repository reference.
	Ref string `json:"ref"`

	// APIToken is an optional access token for repository sources.
	// It is stored encrypted at rest and never listed back.
	APIToken string `json:"-"`

	DocumentCount int       `json:"documentCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.AccountID == "" {
		return Errorf(EINVALID, "source account ID required")
	}
	if s.Ref == "" {
		return Errorf(EINVALID, "source reference required")
	}
	switch s.Type {
	case SourceTypeWeb, SourceTypeRepository:
	default:
		return Errorf(EINVALID, "unknown source type %q", s.Type)
	}
	return nil
}

// SourceService manages registered sources. CreateSource performs
// quota admission and insertion in one transaction.
type SourceService interface {
	// CreateSource registers a source. Returns ECONFLICT when the
	// account's SOURCE quota is exhausted.
	CreateSource(ctx context.Context, source *Source) error

	// FindSourceByID retrieves a source by ID.
	// Returns ENOTFOUND if the source does not exist.
	FindSourceByID(ctx context.Context, id string) (*Source, error)

	// FindSources retrieves the account's sources.
	FindSources(ctx context.Context, accountID string) ([]*Source, error)

	// CountSources returns the authoritative source count for an account.
	CountSources(ctx context.Context, accountID string) (int, error)

	// DeleteSource permanently removes a source.
	// Returns ENOTFOUND if the source does not exist.
	DeleteSource(ctx context.Context, id string) error
}

// Workspace groups sources for an account. The count of an account's
// workspaces is the authoritative value for the WORKSPACE dimension.
type Workspace struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the workspace contains invalid fields.
func (w *Workspace) Validate() error {
	if w.AccountID == "" {
		return Errorf(EINVALID, "workspace account ID required")
	}
	if w.Name == "" {
		return Errorf(EINVALID, "workspace name required")
	}
	return nil
}

// WorkspaceService manages workspaces with the same admission semantics
// as SourceService.
type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, ws *Workspace) error
	FindWorkspaces(ctx context.Context, accountID string) ([]*Workspace, error)
	CountWorkspaces(ctx context.Context, accountID string) (int, error)
	DeleteWorkspace(ctx context.Context, id string) error
}
