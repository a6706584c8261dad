// Package slog provides logging decorators for the core service
// interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/docdex/docdex"
)

// Ensure LoggingEngine implements docdex.Engine.
var _ docdex.Engine = (*LoggingEngine)(nil)

// LoggingEngine wraps an Engine with per-run logging.
type LoggingEngine struct {
	next   docdex.Engine
	logger *slog.Logger
}

// NewLoggingEngine creates a new LoggingEngine.
func NewLoggingEngine(next docdex.Engine, logger *slog.Logger) *LoggingEngine {
	return &LoggingEngine{next: next, logger: logger}
}

// Discover delegates to the wrapped engine and logs the operation.
func (e *LoggingEngine) Discover(ctx context.Context, req *docdex.DiscoveryRequest) (docs []*docdex.Document, err error) {
	defer func(begin time.Time) {
		e.logger.Info("content discovery",
			"url", req.BaseURL,
			"repo", req.RepoRef,
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Discover(ctx, req)
}
