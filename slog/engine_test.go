package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/mock"
	docslog "github.com/docdex/docdex/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingEngine_Discover(t *testing.T) {
	t.Parallel()

	t.Run("logs discovery with count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Engine{
			DiscoverFn: func(ctx context.Context, req *docdex.DiscoveryRequest) ([]*docdex.Document, error) {
				return []*docdex.Document{
					{URL: "https://example.com/docs/a"},
					{URL: "https://example.com/docs/b"},
				}, nil
			},
		}

		engine := docslog.NewLoggingEngine(inner, logger)
		docs, err := engine.Discover(context.Background(), &docdex.DiscoveryRequest{BaseURL: "https://example.com"})

		require.NoError(t, err)
		assert.Len(t, docs, 2)
		output := buf.String()
		assert.Contains(t, output, "content discovery")
		assert.Contains(t, output, "url=https://example.com")
		assert.Contains(t, output, "count=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Engine{
			DiscoverFn: func(ctx context.Context, req *docdex.DiscoveryRequest) ([]*docdex.Document, error) {
				return nil, errors.New("connection failed")
			},
		}

		engine := docslog.NewLoggingEngine(inner, logger)
		_, err := engine.Discover(context.Background(), &docdex.DiscoveryRequest{BaseURL: "https://example.com"})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "content discovery")
		assert.Contains(t, output, "err=\"connection failed\"")
	})
}

func TestLoggingQuotaService(t *testing.T) {
	t.Parallel()

	t.Run("denied consume logs a warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.QuotaService{
			ConsumeFn: func(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error) {
				return docdex.NewQuotaStatus(dim, 50, 50), nil
			},
		}

		svc := docslog.NewLoggingQuotaService(inner, logger)
		status, err := svc.Consume(context.Background(), "acct-1", docdex.QuotaSearch)

		require.NoError(t, err)
		assert.False(t, status.Allowed)
		output := buf.String()
		assert.Contains(t, output, "quota denied")
		assert.Contains(t, output, "account=acct-1")
		assert.Contains(t, output, "dimension=search")
	})

	t.Run("allowed check stays quiet", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.QuotaService{
			CheckFn: func(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error) {
				return docdex.NewQuotaStatus(dim, 1, 50), nil
			},
		}

		svc := docslog.NewLoggingQuotaService(inner, logger)
		status, err := svc.Check(context.Background(), "acct-1", docdex.QuotaSearch)

		require.NoError(t, err)
		assert.True(t, status.Allowed)
		assert.Empty(t, buf.String())
	})
}
