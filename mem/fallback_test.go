package mem_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/mem"
	"github.com/docdex/docdex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unavailable() error {
	return docdex.Errorf(docdex.EUNAVAILABLE, "session store unavailable")
}

func TestFallbackSessionService(t *testing.T) {
	t.Parallel()

	t.Run("healthy primary is used transparently", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		primary := mem.NewSessionService()

		svc := mem.NewFallbackSessionService(primary, logger)
		session, err := svc.GetOrCreate(context.Background(), "acct-1", "ws-1", "")

		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.Empty(t, buf.String())
	})

	t.Run("degrades to in-memory when the primary is down", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		primary := &mock.SessionService{
			GetOrCreateFn: func(ctx context.Context, ownerID, scopeID, sessionID string) (*docdex.SearchSession, error) {
				return nil, unavailable()
			},
			AddShownResultsFn: func(ctx context.Context, sessionID string, ids []string) error {
				return unavailable()
			},
		}

		svc := mem.NewFallbackSessionService(primary, logger)
		session, err := svc.GetOrCreate(context.Background(), "acct-1", "ws-1", "")
		require.NoError(t, err)

		require.NoError(t, svc.AddShownResults(context.Background(), session.ID, []string{"doc-1"}))

		got, err := svc.GetOrCreate(context.Background(), "acct-1", "ws-1", session.ID)
		require.NoError(t, err)
		assert.Empty(t, got.FilterUnseen([]string{"doc-1"}))

		assert.Contains(t, buf.String(), "session store unavailable, using in-memory fallback")
	})

	t.Run("primary not-found on stats passes through", func(t *testing.T) {
		t.Parallel()

		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		primary := &mock.SessionService{
			StatsFn: func(ctx context.Context, sessionID string) (*docdex.SessionStats, error) {
				return nil, docdex.Errorf(docdex.ENOTFOUND, "session not found")
			},
		}

		svc := mem.NewFallbackSessionService(primary, logger)
		_, err := svc.Stats(context.Background(), "missing")
		assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
	})
}
