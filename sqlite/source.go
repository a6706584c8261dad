package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/docdex/docdex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docdex.SourceService = (*SourceService)(nil)

// SourceService implements docdex.SourceService using SQLite. Source
// creation is the consuming action for the SOURCE quota dimension, so
// the admission count and the insert run in one transaction.
type SourceService struct {
	db     *DB
	cipher docdex.Cipher
}

// NewSourceService creates a new SourceService. The cipher encrypts
// repository API tokens at rest; it may be nil when no source carries
// a token.
func NewSourceService(db *DB, cipher docdex.Cipher) *SourceService {
	return &SourceService{db: db, cipher: cipher}
}

// CreateSource registers a source, admitting it against the account's
// SOURCE quota inside the same transaction.
func (s *SourceService) CreateSource(ctx context.Context, source *docdex.Source) error {
	if err := source.Validate(); err != nil {
		return err
	}

	token := ""
	if source.APIToken != "" {
		if s.cipher == nil {
			return docdex.Errorf(docdex.EINTERNAL, "no cipher configured for API token storage")
		}
		enc, err := s.cipher.Encrypt(source.APIToken)
		if err != nil {
			return fmt.Errorf("encrypting API token: %w", err)
		}
		token = enc
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sources WHERE account_id = ?`, source.AccountID,
	).Scan(&count); err != nil {
		return err
	}

	var limit int
	err = tx.QueryRowContext(ctx, `
		SELECT limit_value FROM quota_counters
		WHERE account_id = ? AND dimension = ?
	`, source.AccountID, string(docdex.QuotaSource)).Scan(&limit)
	if err == sql.ErrNoRows {
		limit = docdex.Unlimited
	} else if err != nil {
		return err
	}

	if limit != docdex.Unlimited && count >= limit {
		return docdex.Errorf(docdex.ECONFLICT, "source quota exceeded (%d of %d used)", count, limit)
	}

	source.ID = uuid.New().String()
	now := time.Now().UTC()
	source.CreatedAt = now
	source.UpdatedAt = now

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sources (id, account_id, workspace_id, type, ref, api_token, document_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, source.ID, source.AccountID, source.WorkspaceID, string(source.Type), source.Ref, token,
		source.DocumentCount, now.Format(time.RFC3339), now.Format(time.RFC3339)); err != nil {
		return err
	}

	return tx.Commit()
}

// FindSourceByID retrieves a source by ID, decrypting its API token.
func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*docdex.Source, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, workspace_id, type, ref, api_token, document_count, created_at, updated_at
		FROM sources
		WHERE id = ?
	`, id)

	source, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "source not found")
	}
	if err != nil {
		return nil, err
	}

	if source.APIToken != "" && s.cipher != nil {
		token, err := s.cipher.Decrypt(source.APIToken)
		if err != nil {
			return nil, fmt.Errorf("decrypting API token: %w", err)
		}
		source.APIToken = token
	}
	return source, nil
}

// FindSources retrieves the account's sources, oldest first. API tokens
// are not decrypted when listing.
func (s *SourceService) FindSources(ctx context.Context, accountID string) ([]*docdex.Source, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, workspace_id, type, ref, '', document_count, created_at, updated_at
		FROM sources
		WHERE account_id = ?
		ORDER BY created_at
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []*docdex.Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

// CountSources returns the authoritative source count for an account.
func (s *SourceService) CountSources(ctx context.Context, accountID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sources WHERE account_id = ?`, accountID,
	).Scan(&count)
	return count, err
}

// DeleteSource permanently removes a source.
func (s *SourceService) DeleteSource(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return docdex.Errorf(docdex.ENOTFOUND, "source not found")
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanSource scans one source row.
func scanSource(row scanner) (*docdex.Source, error) {
	var source docdex.Source
	var typ, createdAt, updatedAt string

	if err := row.Scan(&source.ID, &source.AccountID, &source.WorkspaceID, &typ, &source.Ref,
		&source.APIToken, &source.DocumentCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	source.Type = docdex.SourceType(typ)

	var err error
	if source.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if source.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &source, nil
}
