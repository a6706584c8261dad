package sqlite_test

import (
	"context"
	"testing"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/secret"
	"github.com/docdex/docdex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceService_CreateSource(t *testing.T) {
	t.Parallel()

	t.Run("creates source with generated ID and timestamps", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db, nil)
		ctx := context.Background()

		source := &docdex.Source{
			AccountID: "acct-1",
			Type:      docdex.SourceTypeWeb,
			Ref:       "https://example.com",
		}

		require.NoError(t, svc.CreateSource(ctx, source))
		assert.NotEmpty(t, source.ID)
		assert.False(t, source.CreatedAt.IsZero())
		assert.False(t, source.UpdatedAt.IsZero())
	})

	t.Run("returns error for invalid source", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db, nil)

		err := svc.CreateSource(context.Background(), &docdex.Source{})
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})

	t.Run("denies creation beyond the quota limit", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		quota := sqlite.NewQuotaService(db)
		svc := sqlite.NewSourceService(db, nil)
		ctx := context.Background()

		require.NoError(t, quota.SetLimit(ctx, "acct-1", docdex.QuotaSource, 2, nil))

		for range 2 {
			require.NoError(t, svc.CreateSource(ctx, &docdex.Source{
				AccountID: "acct-1",
				Type:      docdex.SourceTypeWeb,
				Ref:       "https://example.com",
			}))
		}

		err := svc.CreateSource(ctx, &docdex.Source{
			AccountID: "acct-1",
			Type:      docdex.SourceTypeWeb,
			Ref:       "https://example.com",
		})
		require.Error(t, err)
		assert.Equal(t, docdex.ECONFLICT, docdex.ErrorCode(err))
		assert.Contains(t, docdex.ErrorMessage(err), "source quota exceeded")

		// Other accounts are unaffected.
		require.NoError(t, svc.CreateSource(ctx, &docdex.Source{
			AccountID: "acct-2",
			Type:      docdex.SourceTypeWeb,
			Ref:       "https://example.com",
		}))
	})

	t.Run("API token is encrypted at rest and decrypted on read", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		cipher, err := secret.NewCipher("test passphrase")
		require.NoError(t, err)
		svc := sqlite.NewSourceService(db, cipher)
		ctx := context.Background()

		source := &docdex.Source{
			AccountID: "acct-1",
			Type:      docdex.SourceTypeRepository,
			Ref:       "github.com/example/docs",
			APIToken:  "ghp_secret123",
		}
		require.NoError(t, svc.CreateSource(ctx, source))

		var stored string
		require.NoError(t, db.QueryRowContext(ctx,
			`SELECT api_token FROM sources WHERE id = ?`, source.ID,
		).Scan(&stored))
		assert.NotEmpty(t, stored)
		assert.NotEqual(t, "ghp_secret123", stored)

		found, err := svc.FindSourceByID(ctx, source.ID)
		require.NoError(t, err)
		assert.Equal(t, "ghp_secret123", found.APIToken)
	})

	t.Run("token without cipher is rejected", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db, nil)

		err := svc.CreateSource(context.Background(), &docdex.Source{
			AccountID: "acct-1",
			Type:      docdex.SourceTypeRepository,
			Ref:       "github.com/example/docs",
			APIToken:  "ghp_secret123",
		})
		assert.Equal(t, docdex.EINTERNAL, docdex.ErrorCode(err))
	})
}

func TestSourceService_FindSources(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	cipher, err := secret.NewCipher("test passphrase")
	require.NoError(t, err)
	svc := sqlite.NewSourceService(db, cipher)
	ctx := context.Background()

	require.NoError(t, svc.CreateSource(ctx, &docdex.Source{
		AccountID: "acct-1",
		Type:      docdex.SourceTypeRepository,
		Ref:       "github.com/example/docs",
		APIToken:  "ghp_secret123",
	}))
	require.NoError(t, svc.CreateSource(ctx, &docdex.Source{
		AccountID: "acct-1",
		Type:      docdex.SourceTypeWeb,
		Ref:       "https://example.com",
	}))

	sources, err := svc.FindSources(ctx, "acct-1")
	require.NoError(t, err)
	require.Len(t, sources, 2)

	// Listing never exposes tokens, encrypted or not.
	for _, source := range sources {
		assert.Empty(t, source.APIToken)
	}

	count, err := svc.CountSources(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSourceService_FindSourceByID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewSourceService(db, nil)

	_, err := svc.FindSourceByID(context.Background(), "missing")
	assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
}

func TestSourceService_DeleteSource(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewSourceService(db, nil)
	ctx := context.Background()

	source := &docdex.Source{
		AccountID: "acct-1",
		Type:      docdex.SourceTypeWeb,
		Ref:       "https://example.com",
	}
	require.NoError(t, svc.CreateSource(ctx, source))
	require.NoError(t, svc.DeleteSource(ctx, source.ID))

	_, err := svc.FindSourceByID(ctx, source.ID)
	assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))

	err = svc.DeleteSource(ctx, source.ID)
	assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
}

func TestWorkspaceService(t *testing.T) {
	t.Parallel()

	t.Run("creation is quota gated", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		quota := sqlite.NewQuotaService(db)
		svc := sqlite.NewWorkspaceService(db)
		ctx := context.Background()

		require.NoError(t, quota.SetLimit(ctx, "acct-1", docdex.QuotaWorkspace, 1, nil))

		require.NoError(t, svc.CreateWorkspace(ctx, &docdex.Workspace{AccountID: "acct-1", Name: "primary"}))

		err := svc.CreateWorkspace(ctx, &docdex.Workspace{AccountID: "acct-1", Name: "secondary"})
		assert.Equal(t, docdex.ECONFLICT, docdex.ErrorCode(err))
	})

	t.Run("lists and counts workspaces", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewWorkspaceService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateWorkspace(ctx, &docdex.Workspace{AccountID: "acct-1", Name: "one"}))
		require.NoError(t, svc.CreateWorkspace(ctx, &docdex.Workspace{AccountID: "acct-1", Name: "two"}))

		workspaces, err := svc.FindWorkspaces(ctx, "acct-1")
		require.NoError(t, err)
		assert.Len(t, workspaces, 2)

		count, err := svc.CountWorkspaces(ctx, "acct-1")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("delete of unknown workspace returns not found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewWorkspaceService(db)

		err := svc.DeleteWorkspace(context.Background(), "missing")
		assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
	})
}
