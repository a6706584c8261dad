// Package discover orchestrates the content discovery cascade: an
// ordered list of strategies tried in priority order, first success
// wins, under a global document cap.
package discover

import (
	"context"
	"log/slog"

	"github.com/docdex/docdex"
)

// Compile-time interface verification.
var _ docdex.Engine = (*CascadeEngine)(nil)

// CascadeEngine tries each strategy in order and returns the first
// found document set. Absence of a strategy's data is a normal outcome;
// a strategy error marks that strategy unavailable and the cascade
// continues, except for configuration errors which make the whole
// request meaningless and propagate.
type CascadeEngine struct {
	strategies []docdex.DiscoveryStrategy
	logger     *slog.Logger
}

// NewCascadeEngine creates an engine over the given strategies in
// cascade priority order.
func NewCascadeEngine(logger *slog.Logger, strategies ...docdex.DiscoveryStrategy) *CascadeEngine {
	return &CascadeEngine{strategies: strategies, logger: logger}
}

// Discover implements docdex.Engine. When no strategy yields a result
// it returns an empty set, never an error; the caller decides whether
// to fall back to a raw crawl.
func (e *CascadeEngine) Discover(ctx context.Context, req *docdex.DiscoveryRequest) ([]*docdex.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	for _, strategy := range e.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := strategy.Discover(ctx, req)
		if err != nil {
			switch docdex.ErrorCode(err) {
			case docdex.EINVALID, docdex.EUNAUTHORIZED:
				return nil, err
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Warn("discovery strategy unavailable",
				"strategy", strategy.Name(),
				"err", err,
			)
			continue
		}
		if result == nil || !result.Found {
			continue
		}

		docs := result.Documents
		if req.MaxDocuments > 0 && len(docs) > req.MaxDocuments {
			docs = docs[:req.MaxDocuments]
		}
		return docs, nil
	}

	return []*docdex.Document{}, nil
}
