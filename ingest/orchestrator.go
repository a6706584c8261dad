// Package ingest is the thin orchestration layer at the collaborator
// boundary: it admits actions through the quota ledger, invokes the
// discovery engine, records results, and hands ingestion work to the
// external job queue.
package ingest

import (
	"context"
	"log/slog"

	"github.com/docdex/docdex"
)

// Orchestrator glues the core services together. All collaborators are
// interfaces owned by the root package.
type Orchestrator struct {
	Engine   docdex.Engine
	Quota    docdex.QuotaService
	Sources  docdex.SourceService
	Sessions docdex.SessionService
	Searcher docdex.Searcher
	Queue    docdex.Queue
	Logger   *slog.Logger

	// SearchLimit bounds results requested from the search backend.
	SearchLimit int
}

// AddSourceResult reports the outcome of a source registration.
type AddSourceResult struct {
	Source    *docdex.Source      `json:"source,omitempty"`
	Quota     *docdex.QuotaStatus `json:"quota"`
	Documents []*docdex.Document  `json:"documents,omitempty"`
}

// AddSource admits, discovers, records, and enqueues a new source.
// Quota exhaustion is a structured denial in the result, not an error.
// When discovery finds nothing the source is still registered; the
// caller decides whether to fall back to a raw crawl.
func (o *Orchestrator) AddSource(ctx context.Context, source *docdex.Source, req *docdex.DiscoveryRequest) (*AddSourceResult, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}

	status, err := o.Quota.Check(ctx, source.AccountID, docdex.QuotaSource)
	if err != nil {
		return nil, err
	}
	if !status.Allowed {
		return &AddSourceResult{Quota: status}, nil
	}

	docs, err := o.Engine.Discover(ctx, req)
	if err != nil {
		return nil, err
	}

	source.DocumentCount = len(docs)
	if err := o.Sources.CreateSource(ctx, source); err != nil {
		return nil, err
	}

	if len(docs) > 0 {
		jobs := make([]docdex.Job, 0, len(docs))
		for _, doc := range docs {
			jobs = append(jobs, docdex.Job{
				SourceID: source.ID,
				URL:      doc.URL,
				SHA:      doc.SHA,
			})
		}
		if err := o.Queue.Enqueue(ctx, jobs); err != nil {
			return nil, err
		}
	} else {
		o.Logger.Info("no content discovered", "ref", source.Ref)
	}

	return &AddSourceResult{Source: source, Quota: status, Documents: docs}, nil
}

// SearchResult is the session-aware outcome of one search.
type SearchResult struct {
	SessionID string                 `json:"sessionId"`
	Results   []*docdex.SearchResult `json:"results"`
	Quota     *docdex.QuotaStatus    `json:"quota"`
}

// Search consumes SEARCH quota, resolves the session, and returns
// results not yet shown in it. Quota exhaustion is a structured denial.
func (o *Orchestrator) Search(ctx context.Context, accountID, scopeID, sessionID, query string) (*SearchResult, error) {
	status, err := o.Quota.Consume(ctx, accountID, docdex.QuotaSearch)
	if err != nil {
		return nil, err
	}
	if !status.Allowed {
		return &SearchResult{Quota: status}, nil
	}

	session, err := o.Sessions.GetOrCreate(ctx, accountID, scopeID, sessionID)
	if err != nil {
		return nil, err
	}

	limit := o.SearchLimit
	if limit <= 0 {
		limit = 10
	}
	hits, err := o.Searcher.Search(ctx, scopeID, query, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(hits))
	byID := make(map[string]*docdex.SearchResult, len(hits))
	for i, hit := range hits {
		ids[i] = hit.ID
		byID[hit.ID] = hit
	}

	unseen := session.FilterUnseen(ids)
	results := make([]*docdex.SearchResult, 0, len(unseen))
	for _, id := range unseen {
		results = append(results, byID[id])
	}

	if err := o.Sessions.AddQuery(ctx, session.ID, query, len(results)); err != nil {
		return nil, err
	}
	if len(unseen) > 0 {
		if err := o.Sessions.AddShownResults(ctx, session.ID, unseen); err != nil {
			return nil, err
		}
	}

	return &SearchResult{SessionID: session.ID, Results: results, Quota: status}, nil
}

// TrackClick records a result click against the session's most recent
// query.
func (o *Orchestrator) TrackClick(ctx context.Context, sessionID, resultID string) error {
	return o.Sessions.TrackClick(ctx, sessionID, resultID)
}

// QuotaReport combines statuses and derived warnings for an account.
type QuotaReport struct {
	Statuses []*docdex.QuotaStatus `json:"statuses"`
	Warnings []docdex.QuotaWarning `json:"warnings,omitempty"`
}

// QuotaReport returns the account's statuses and warnings.
func (o *Orchestrator) QuotaReport(ctx context.Context, accountID string) (*QuotaReport, error) {
	statuses, err := o.Quota.CheckAll(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &QuotaReport{
		Statuses: statuses,
		Warnings: docdex.WarningsFromStatuses(statuses),
	}, nil
}
