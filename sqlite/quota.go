package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/docdex/docdex"
	"golang.org/x/sync/errgroup"
)

// quotaResetPeriod is how far reset_at advances when a counter rolls
// over into a new period.
const quotaResetPeriod = 30 * 24 * time.Hour

// Compile-time interface verification.
var _ docdex.QuotaService = (*QuotaService)(nil)

// QuotaService implements docdex.QuotaService using SQLite.
//
// SEARCH and PAGE usage comes from stored counters; SOURCE and
// WORKSPACE usage is recomputed from the authoritative row counts at
// check time, which guards those rarely-updated dimensions against
// counter drift at the cost of an extra read.
type QuotaService struct {
	db  *DB
	now func() time.Time
}

// NewQuotaService creates a new QuotaService.
func NewQuotaService(db *DB) *QuotaService {
	return &QuotaService{db: db, now: time.Now}
}

// SetLimit provisions or updates the limit for one dimension. A limit
// of docdex.Unlimited (-1) removes metering for the dimension.
func (s *QuotaService) SetLimit(ctx context.Context, accountID string, dim docdex.QuotaDimension, limit int, resetAt *time.Time) error {
	if !dim.Valid() {
		return docdex.Errorf(docdex.EINVALID, "unknown quota dimension %q", dim)
	}

	var reset any
	if resetAt != nil {
		reset = resetAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quota_counters (account_id, dimension, used, limit_value, reset_at)
		VALUES (?, ?, 0, ?, ?)
		ON CONFLICT (account_id, dimension)
		DO UPDATE SET limit_value = excluded.limit_value, reset_at = excluded.reset_at
	`, accountID, string(dim), limit, reset)
	return err
}

// Check returns the admission status for one dimension without
// consuming quota.
func (s *QuotaService) Check(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error) {
	if !dim.Valid() {
		return nil, docdex.Errorf(docdex.EINVALID, "unknown quota dimension %q", dim)
	}

	used, limit, resetAt, err := s.readCounter(ctx, accountID, dim)
	if err != nil {
		return nil, err
	}

	switch dim {
	case docdex.QuotaSource:
		used, err = s.countRows(ctx, "sources", accountID)
	case docdex.QuotaWorkspace:
		used, err = s.countRows(ctx, "workspaces", accountID)
	default:
		// Stored counter; a lapsed reset period reads as zero usage.
		// The next window starts at the next consumption, so no reset
		// time is reported until then.
		if resetAt != nil && !s.now().Before(*resetAt) {
			used = 0
			resetAt = nil
		}
	}
	if err != nil {
		return nil, err
	}

	status := docdex.NewQuotaStatus(dim, used, limit)
	status.ResetAt = resetAt
	return status, nil
}

// CheckAll returns statuses for every dimension, read in parallel.
func (s *QuotaService) CheckAll(ctx context.Context, accountID string) ([]*docdex.QuotaStatus, error) {
	statuses := make([]*docdex.QuotaStatus, len(docdex.QuotaDimensions))

	g, gctx := errgroup.WithContext(ctx)
	for i, dim := range docdex.QuotaDimensions {
		g.Go(func() error {
			status, err := s.Check(gctx, accountID, dim)
			if err != nil {
				return err
			}
			statuses[i] = status
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}

// Warnings derives warnings from the current statuses.
func (s *QuotaService) Warnings(ctx context.Context, accountID string) ([]docdex.QuotaWarning, error) {
	statuses, err := s.CheckAll(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return docdex.WarningsFromStatuses(statuses), nil
}

// Consume atomically checks and increments a counter dimension. The
// admission decision and the increment are one conditional UPDATE, so
// two concurrent requests can never both take the last remaining unit.
//
// SOURCE and WORKSPACE are consumed by creating their rows (see
// SourceService and WorkspaceService), not through Consume.
func (s *QuotaService) Consume(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error) {
	switch dim {
	case docdex.QuotaSearch, docdex.QuotaPage:
	case docdex.QuotaSource, docdex.QuotaWorkspace:
		return nil, docdex.Errorf(docdex.EINVALID, "%s quota is consumed by record creation", dim)
	default:
		return nil, docdex.Errorf(docdex.EINVALID, "unknown quota dimension %q", dim)
	}

	now := s.now().UTC()

	// Roll a lapsed period over before admitting.
	next := now.Add(quotaResetPeriod).Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, `
		UPDATE quota_counters
		SET used = 0, reset_at = ?
		WHERE account_id = ? AND dimension = ? AND reset_at IS NOT NULL AND reset_at <= ?
	`, next, accountID, string(dim), now.Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("rolling over quota period: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE quota_counters
		SET used = used + 1
		WHERE account_id = ? AND dimension = ? AND (limit_value < 0 OR used < limit_value)
	`, accountID, string(dim))
	if err != nil {
		return nil, fmt.Errorf("consuming quota: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	if affected > 0 {
		// A counter provisioned without a reset time starts its window
		// at first consumption.
		if _, err := s.db.ExecContext(ctx, `
			UPDATE quota_counters
			SET reset_at = ?
			WHERE account_id = ? AND dimension = ? AND reset_at IS NULL
		`, next, accountID, string(dim)); err != nil {
			return nil, fmt.Errorf("starting quota period: %w", err)
		}
	}

	status, err := s.Check(ctx, accountID, dim)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Either the counter is exhausted or no counter row exists.
		// Absent rows are unmetered and always admit.
		if status.Limit == docdex.Unlimited {
			return status, nil
		}
		status.Allowed = false
		return status, nil
	}

	status.Allowed = true
	return status, nil
}

// readCounter reads one counter row. Accounts without a provisioned
// counter are unmetered for that dimension.
func (s *QuotaService) readCounter(ctx context.Context, accountID string, dim docdex.QuotaDimension) (used, limit int, resetAt *time.Time, err error) {
	var reset sql.NullString
	err = s.db.QueryRowContext(ctx, `
		SELECT used, limit_value, reset_at
		FROM quota_counters
		WHERE account_id = ? AND dimension = ?
	`, accountID, string(dim)).Scan(&used, &limit, &reset)

	if err == sql.ErrNoRows {
		return 0, docdex.Unlimited, nil, nil
	}
	if err != nil {
		return 0, 0, nil, err
	}

	if reset.Valid {
		t, perr := time.Parse(time.RFC3339, reset.String)
		if perr != nil {
			return 0, 0, nil, fmt.Errorf("failed to parse reset_at: %w", perr)
		}
		resetAt = &t
	}
	return used, limit, resetAt, nil
}

// countRows returns the authoritative row count for an account in the
// given table.
func (s *QuotaService) countRows(ctx context.Context, table, accountID string) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE account_id = ?", table)
	if err := s.db.QueryRowContext(ctx, query, accountID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
