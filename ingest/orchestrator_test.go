package ingest_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/ingest"
	"github.com/docdex/docdex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOrchestrator_AddSource(t *testing.T) {
	t.Parallel()

	t.Run("discovers, registers and enqueues jobs", func(t *testing.T) {
		t.Parallel()

		var created *docdex.Source
		var enqueued []docdex.Job

		o := &ingest.Orchestrator{
			Quota: &mock.QuotaService{
				CheckFn: func(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error) {
					assert.Equal(t, docdex.QuotaSource, dim)
					return docdex.NewQuotaStatus(dim, 1, 10), nil
				},
			},
			Engine: &mock.Engine{
				DiscoverFn: func(ctx context.Context, req *docdex.DiscoveryRequest) ([]*docdex.Document, error) {
					return []*docdex.Document{
						{URL: "https://example.com/docs/a.md", SHA: "abc"},
						{URL: "https://example.com/docs/b.md"},
					}, nil
				},
			},
			Sources: &mock.SourceService{
				CreateSourceFn: func(ctx context.Context, source *docdex.Source) error {
					source.ID = "src-1"
					created = source
					return nil
				},
			},
			Queue: &mock.Queue{
				EnqueueFn: func(ctx context.Context, jobs []docdex.Job) error {
					enqueued = jobs
					return nil
				},
			},
			Logger: discardLogger(),
		}

		source := &docdex.Source{AccountID: "acct-1", Type: docdex.SourceTypeWeb, Ref: "https://example.com"}
		result, err := o.AddSource(context.Background(), source, &docdex.DiscoveryRequest{BaseURL: "https://example.com"})

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, 2, created.DocumentCount)
		require.Len(t, enqueued, 2)
		assert.Equal(t, "src-1", enqueued[0].SourceID)
		assert.Equal(t, "https://example.com/docs/a.md", enqueued[0].URL)
		assert.Equal(t, "abc", enqueued[0].SHA)
		assert.Len(t, result.Documents, 2)
	})

	t.Run("quota exhaustion returns denial without discovering", func(t *testing.T) {
		t.Parallel()

		o := &ingest.Orchestrator{
			Quota: &mock.QuotaService{
				CheckFn: func(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error) {
					return docdex.NewQuotaStatus(dim, 10, 10), nil
				},
			},
			Engine: &mock.Engine{
				DiscoverFn: func(ctx context.Context, req *docdex.DiscoveryRequest) ([]*docdex.Document, error) {
					t.Fatal("discovery must not run when quota is exhausted")
					return nil, nil
				},
			},
			Logger: discardLogger(),
		}

		source := &docdex.Source{AccountID: "acct-1", Type: docdex.SourceTypeWeb, Ref: "https://example.com"}
		result, err := o.AddSource(context.Background(), source, &docdex.DiscoveryRequest{BaseURL: "https://example.com"})

		require.NoError(t, err)
		assert.Nil(t, result.Source)
		require.NotNil(t, result.Quota)
		assert.False(t, result.Quota.Allowed)
	})

	t.Run("empty discovery still registers the source", func(t *testing.T) {
		t.Parallel()

		var created bool
		o := &ingest.Orchestrator{
			Quota: &mock.QuotaService{
				CheckFn: func(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error) {
					return docdex.NewQuotaStatus(dim, 0, docdex.Unlimited), nil
				},
			},
			Engine: &mock.Engine{
				DiscoverFn: func(ctx context.Context, req *docdex.DiscoveryRequest) ([]*docdex.Document, error) {
					return nil, nil
				},
			},
			Sources: &mock.SourceService{
				CreateSourceFn: func(ctx context.Context, source *docdex.Source) error {
					created = true
					return nil
				},
			},
			Queue: &mock.Queue{
				EnqueueFn: func(ctx context.Context, jobs []docdex.Job) error {
					t.Fatal("nothing to enqueue")
					return nil
				},
			},
			Logger: discardLogger(),
		}

		source := &docdex.Source{AccountID: "acct-1", Type: docdex.SourceTypeWeb, Ref: "https://example.com"}
		result, err := o.AddSource(context.Background(), source, &docdex.DiscoveryRequest{BaseURL: "https://example.com"})

		require.NoError(t, err)
		assert.True(t, created)
		assert.Empty(t, result.Documents)
	})

	t.Run("invalid source is rejected before quota check", func(t *testing.T) {
		t.Parallel()

		o := &ingest.Orchestrator{Logger: discardLogger()}
		_, err := o.AddSource(context.Background(), &docdex.Source{}, &docdex.DiscoveryRequest{})
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})
}

func TestOrchestrator_Search(t *testing.T) {
	t.Parallel()

	t.Run("filters previously shown results and records the query", func(t *testing.T) {
		t.Parallel()

		session := docdex.NewSearchSession("sess-1", "acct-1", "ws-1", time.Now())
		session.AddShownResults([]string{"doc-1"})

		var addedQuery string
		var addedCount int
		var shown []string

		o := &ingest.Orchestrator{
			Quota: &mock.QuotaService{
				ConsumeFn: func(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error) {
					assert.Equal(t, docdex.QuotaSearch, dim)
					return docdex.NewQuotaStatus(dim, 1, 50), nil
				},
			},
			Sessions: &mock.SessionService{
				GetOrCreateFn: func(ctx context.Context, ownerID, scopeID, sessionID string) (*docdex.SearchSession, error) {
					return session, nil
				},
				AddQueryFn: func(ctx context.Context, sessionID, query string, resultCount int) error {
					addedQuery, addedCount = query, resultCount
					return nil
				},
				AddShownResultsFn: func(ctx context.Context, sessionID string, ids []string) error {
					shown = ids
					return nil
				},
			},
			Searcher: &mock.Searcher{
				SearchFn: func(ctx context.Context, scopeID, query string, limit int) ([]*docdex.SearchResult, error) {
					return []*docdex.SearchResult{
						{ID: "doc-1"},
						{ID: "doc-2"},
						{ID: "doc-3"},
					}, nil
				},
			},
			Logger: discardLogger(),
		}

		result, err := o.Search(context.Background(), "acct-1", "ws-1", "sess-1", "install guide")

		require.NoError(t, err)
		assert.Equal(t, "sess-1", result.SessionID)
		require.Len(t, result.Results, 2)
		assert.Equal(t, "doc-2", result.Results[0].ID)
		assert.Equal(t, "doc-3", result.Results[1].ID)
		assert.Equal(t, "install guide", addedQuery)
		assert.Equal(t, 2, addedCount)
		assert.Equal(t, []string{"doc-2", "doc-3"}, shown)
	})

	t.Run("quota denial skips search entirely", func(t *testing.T) {
		t.Parallel()

		o := &ingest.Orchestrator{
			Quota: &mock.QuotaService{
				ConsumeFn: func(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error) {
					return docdex.NewQuotaStatus(dim, 50, 50), nil
				},
			},
			Searcher: &mock.Searcher{
				SearchFn: func(ctx context.Context, scopeID, query string, limit int) ([]*docdex.SearchResult, error) {
					t.Fatal("search must not run when quota is exhausted")
					return nil, nil
				},
			},
			Logger: discardLogger(),
		}

		result, err := o.Search(context.Background(), "acct-1", "ws-1", "sess-1", "anything")

		require.NoError(t, err)
		assert.Empty(t, result.Results)
		assert.False(t, result.Quota.Allowed)
	})
}

func TestOrchestrator_QuotaReport(t *testing.T) {
	t.Parallel()

	o := &ingest.Orchestrator{
		Quota: &mock.QuotaService{
			CheckAllFn: func(ctx context.Context, accountID string) ([]*docdex.QuotaStatus, error) {
				return []*docdex.QuotaStatus{
					docdex.NewQuotaStatus(docdex.QuotaSearch, 45, 50),
					docdex.NewQuotaStatus(docdex.QuotaSource, 0, docdex.Unlimited),
				}, nil
			},
		},
		Logger: discardLogger(),
	}

	report, err := o.QuotaReport(context.Background(), "acct-1")

	require.NoError(t, err)
	assert.Len(t, report.Statuses, 2)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, docdex.QuotaSearch, report.Warnings[0].Dimension)
}
