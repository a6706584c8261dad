package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/docdex/docdex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docdex.WorkspaceService = (*WorkspaceService)(nil)

// WorkspaceService implements docdex.WorkspaceService using SQLite,
// with the same transactional admission as SourceService.
type WorkspaceService struct {
	db *DB
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(db *DB) *WorkspaceService {
	return &WorkspaceService{db: db}
}

// CreateWorkspace creates a workspace, admitting it against the
// account's WORKSPACE quota inside the same transaction.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, ws *docdex.Workspace) error {
	if err := ws.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workspaces WHERE account_id = ?`, ws.AccountID,
	).Scan(&count); err != nil {
		return err
	}

	var limit int
	err = tx.QueryRowContext(ctx, `
		SELECT limit_value FROM quota_counters
		WHERE account_id = ? AND dimension = ?
	`, ws.AccountID, string(docdex.QuotaWorkspace)).Scan(&limit)
	if err == sql.ErrNoRows {
		limit = docdex.Unlimited
	} else if err != nil {
		return err
	}

	if limit != docdex.Unlimited && count >= limit {
		return docdex.Errorf(docdex.ECONFLICT, "workspace quota exceeded (%d of %d used)", count, limit)
	}

	ws.ID = uuid.New().String()
	ws.CreatedAt = time.Now().UTC()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO workspaces (id, account_id, name, created_at)
		VALUES (?, ?, ?, ?)
	`, ws.ID, ws.AccountID, ws.Name, ws.CreatedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	return tx.Commit()
}

// FindWorkspaces retrieves the account's workspaces, oldest first.
func (s *WorkspaceService) FindWorkspaces(ctx context.Context, accountID string) ([]*docdex.Workspace, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, name, created_at
		FROM workspaces
		WHERE account_id = ?
		ORDER BY created_at
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []*docdex.Workspace
	for rows.Next() {
		var ws docdex.Workspace
		var createdAt string
		if err := rows.Scan(&ws.ID, &ws.AccountID, &ws.Name, &createdAt); err != nil {
			return nil, err
		}
		if ws.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, &ws)
	}
	return workspaces, rows.Err()
}

// CountWorkspaces returns the authoritative workspace count.
func (s *WorkspaceService) CountWorkspaces(ctx context.Context, accountID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workspaces WHERE account_id = ?`, accountID,
	).Scan(&count)
	return count, err
}

// DeleteWorkspace permanently removes a workspace.
func (s *WorkspaceService) DeleteWorkspace(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return docdex.Errorf(docdex.ENOTFOUND, "workspace not found")
	}
	return nil
}
