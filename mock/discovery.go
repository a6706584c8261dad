// Package mock provides function-field test doubles for the service
// interfaces defined in the root package.
package mock

import (
	"context"

	"github.com/docdex/docdex"
)

var _ docdex.DiscoveryStrategy = (*DiscoveryStrategy)(nil)

// DiscoveryStrategy is a mock implementation of docdex.DiscoveryStrategy.
type DiscoveryStrategy struct {
	NameFn     func() docdex.DiscoveryStrategyName
	DiscoverFn func(ctx context.Context, req *docdex.DiscoveryRequest) (*docdex.DiscoveryResult, error)
}

func (s *DiscoveryStrategy) Name() docdex.DiscoveryStrategyName {
	return s.NameFn()
}

func (s *DiscoveryStrategy) Discover(ctx context.Context, req *docdex.DiscoveryRequest) (*docdex.DiscoveryResult, error) {
	return s.DiscoverFn(ctx, req)
}

var _ docdex.Engine = (*Engine)(nil)

// Engine is a mock implementation of docdex.Engine.
type Engine struct {
	DiscoverFn func(ctx context.Context, req *docdex.DiscoveryRequest) ([]*docdex.Document, error)
}

func (e *Engine) Discover(ctx context.Context, req *docdex.DiscoveryRequest) ([]*docdex.Document, error) {
	return e.DiscoverFn(ctx, req)
}
