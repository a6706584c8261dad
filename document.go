package docdex

import "context"

// DiscoveryStrategyName identifies how a document was discovered.
type DiscoveryStrategyName string

// Discovery strategies in cascade priority order.
const (
	StrategyManifestFull    DiscoveryStrategyName = "manifest_full"
	StrategyManifestSummary DiscoveryStrategyName = "manifest_summary"
	StrategySitemap         DiscoveryStrategyName = "sitemap"
	StrategyRepository      DiscoveryStrategyName = "repository"
)

// Document represents a single discovered document. It is immutable once
// produced; a discovery run owns its result set for the duration of the run.
type Document struct {
	// URL or repository-relative path of the document.
	URL string `json:"url"`

	// Content is present only when the strategy fetched it inline
	// (full manifest). Otherwise content is fetched lazily by the
	// ingestion pipeline.
	Content string `json:"content,omitempty"`

	// SizeBytes is the content size when known (repository listings
	// report it without fetching).
	SizeBytes int64 `json:"sizeBytes"`

	// Strategy records which discovery strategy produced the document.
	Strategy DiscoveryStrategyName `json:"strategy"`

	// ContentHash is an xxhash of Content when content was fetched inline.
	ContentHash string `json:"contentHash,omitempty"`

	// SHA is the upstream object hash for repository files.
	SHA string `json:"sha,omitempty"`
}

// Default limits for discovery requests.
const (
	DefaultMaxDepth    = 3
	DefaultConcurrency = 5
)

// DiscoveryRequest describes one discovery invocation. It is created per
// run and never persisted.
type DiscoveryRequest struct {
	// BaseURL is the site to discover documents for. Exactly one of
	// BaseURL and RepoRef must be set.
	BaseURL string `json:"baseUrl"`

	// RepoRef references a code-hosting repository ("owner/repo" or a
	// full repository URL).
	RepoRef string `json:"repoRef"`

	// MaxDocuments caps the result set. Zero means unlimited.
	MaxDocuments int `json:"maxDocuments"`

	// MaxDepth caps sitemap-index nesting. Zero means DefaultMaxDepth.
	MaxDepth int `json:"maxDepth"`

	// Concurrency bounds simultaneous child fetches within a strategy.
	// Zero means DefaultConcurrency.
	Concurrency int `json:"concurrency"`
}

// Validate returns an error if the request contains invalid fields.
func (r *DiscoveryRequest) Validate() error {
	if r.BaseURL == "" && r.RepoRef == "" {
		return Errorf(EINVALID, "discovery request requires a base URL or repository reference")
	}
	if r.BaseURL != "" && r.RepoRef != "" {
		return Errorf(EINVALID, "discovery request cannot have both a base URL and a repository reference")
	}
	return nil
}

// Depth returns the effective recursion depth cap.
func (r *DiscoveryRequest) Depth() int {
	if r.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return r.MaxDepth
}

// Batch returns the effective concurrent fetch limit.
func (r *DiscoveryRequest) Batch() int {
	if r.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return r.Concurrency
}

// AtCap reports whether n documents satisfy the request's document cap.
func (r *DiscoveryRequest) AtCap(n int) bool {
	return r.MaxDocuments > 0 && n >= r.MaxDocuments
}

// DiscoveryResult is the tagged outcome of a single strategy. Found
// distinguishes "strategy produced a document set" from "strategy has no
// data for this source", which is a normal outcome and never an error.
type DiscoveryResult struct {
	Found     bool
	Documents []*Document
}

// DiscoveryStrategy is one step in the discovery cascade.
//
// Implementations return Found=false for absent data (missing manifest,
// no sitemap). They return an error only for failures that make the
// request itself meaningless; transient network and parse failures inside
// a strategy are converted to Found=false or partial results.
type DiscoveryStrategy interface {
	// Name identifies the strategy for logging and result tagging.
	Name() DiscoveryStrategyName

	// Discover attempts to produce the document set for the request.
	Discover(ctx context.Context, req *DiscoveryRequest) (*DiscoveryResult, error)
}

// Engine runs the strategy cascade and returns a single document set.
type Engine interface {
	Discover(ctx context.Context, req *DiscoveryRequest) ([]*Document, error)
}
