package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/discover"
	"golang.org/x/sync/errgroup"
)

// DefaultRepoAPIBaseURL is the production code-hosting API base.
const DefaultRepoAPIBaseURL = "https://api.github.com"

// docFileExtensions is the allow-list of documentation-relevant file
// extensions.
var docFileExtensions = map[string]bool{
	".md":       true,
	".mdx":      true,
	".markdown": true,
	".rst":      true,
	".txt":      true,
	".adoc":     true,
}

// docFilePrefixes accepts files by name prefix regardless of extension.
var docFilePrefixes = []string{"readme", "changelog", "contributing"}

// docDirNames is the allow-list of documentation-shaped directory names.
// Only these (and the repository root) are recursed into.
var docDirNames = map[string]bool{
	"docs":          true,
	"doc":           true,
	"documentation": true,
	"guide":         true,
	"guides":        true,
	"manual":        true,
	"handbook":      true,
	"wiki":          true,
}

// Compile-time interface verification.
var _ docdex.DiscoveryStrategy = (*RepoStrategy)(nil)

// RepoStrategy walks a code-hosting repository through its API,
// collecting documentation-relevant files as document descriptors.
// File content is fetched separately by the ingestion pipeline, not
// during the walk.
type RepoStrategy struct {
	client  *Client
	token   string
	apiBase string
	logger  *slog.Logger
}

// RepoOption configures a RepoStrategy.
type RepoOption func(*RepoStrategy)

// WithRepoAPIBaseURL overrides the code-hosting API base (for testing).
func WithRepoAPIBaseURL(base string) RepoOption {
	return func(s *RepoStrategy) {
		s.apiBase = strings.TrimRight(base, "/")
	}
}

// NewRepoStrategy creates a RepoStrategy authenticating with token.
func NewRepoStrategy(client *Client, token string, logger *slog.Logger, opts ...RepoOption) *RepoStrategy {
	s := &RepoStrategy{
		client:  client,
		token:   token,
		apiBase: DefaultRepoAPIBaseURL,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements docdex.DiscoveryStrategy.
func (s *RepoStrategy) Name() docdex.DiscoveryStrategyName {
	return docdex.StrategyRepository
}

// repoEntry is one item of a directory listing.
type repoEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Size        int64  `json:"size"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// Discover performs a breadth-first walk of the repository's directory
// listings. A single directory-listing failure is logged and skipped.
func (s *RepoStrategy) Discover(ctx context.Context, req *docdex.DiscoveryRequest) (*docdex.DiscoveryResult, error) {
	if req.RepoRef == "" {
		return &docdex.DiscoveryResult{}, nil
	}
	if s.token == "" {
		return nil, docdex.Errorf(docdex.EUNAUTHORIZED, "repository API token required")
	}

	owner, repo, err := ParseRepoRef(req.RepoRef)
	if err != nil {
		return nil, err
	}

	branch, err := s.defaultBranch(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("resolving default branch for %s/%s: %w", owner, repo, err)
	}

	queue := discover.NewQueue()
	queue.Push("", 0)

	var docs []*docdex.Document
	for queue.Len() > 0 && !req.AtCap(len(docs)) {
		batch := queue.PopN(req.Batch())
		listings := make([][]repoEntry, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		for i, task := range batch {
			g.Go(func() error {
				entries, err := s.listDir(gctx, owner, repo, task.Ref, branch)
				if err != nil {
					s.logger.Warn("directory listing failed",
						"repo", owner+"/"+repo,
						"path", task.Ref,
						"err", err,
					)
					return nil
				}
				listings[i] = entries
				return nil
			})
		}
		_ = g.Wait()

		if ctx.Err() != nil {
			break
		}

		for i, entries := range listings {
			for _, entry := range entries {
				switch entry.Type {
				case "file":
					if req.AtCap(len(docs)) {
						break
					}
					if !isDocFile(entry.Name) {
						continue
					}
					docURL := entry.DownloadURL
					if docURL == "" {
						docURL = entry.Path
					}
					docs = append(docs, &docdex.Document{
						URL:       docURL,
						SizeBytes: entry.Size,
						SHA:       entry.SHA,
						Strategy:  docdex.StrategyRepository,
					})
				case "dir":
					// The root is always walked (it seeds the queue);
					// child directories only when documentation-shaped.
					if isDocDir(entry.Name) {
						queue.Push(entry.Path, batch[i].Depth+1)
					}
				}
			}
		}
	}

	return &docdex.DiscoveryResult{Found: len(docs) > 0, Documents: docs}, nil
}

// defaultBranch resolves the repository's default branch from its
// metadata endpoint.
func (s *RepoStrategy) defaultBranch(ctx context.Context, owner, repo string) (string, error) {
	body, status, err := s.apiGet(ctx, fmt.Sprintf("%s/repos/%s/%s", s.apiBase, owner, repo))
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", docdex.Errorf(docdex.ENOTFOUND, "repository %s/%s not found", owner, repo)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", status)
	}

	var meta struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := json.Unmarshal(body, &meta); err != nil {
		return "", fmt.Errorf("parsing repository metadata: %w", err)
	}
	if meta.DefaultBranch == "" {
		return "main", nil
	}
	return meta.DefaultBranch, nil
}

// listDir fetches one directory listing from the contents API.
func (s *RepoStrategy) listDir(ctx context.Context, owner, repo, dirPath, branch string) ([]repoEntry, error) {
	listURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		s.apiBase, owner, repo, dirPath, url.QueryEscape(branch))

	body, status, err := s.apiGet(ctx, listURL)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", status, listURL)
	}

	var entries []repoEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("parsing directory listing: %w", err)
	}
	return entries, nil
}

// apiGet performs an authenticated API request.
func (s *RepoStrategy) apiGet(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("Authorization", "Bearer "+s.token)

	return s.client.do(req)
}

// ParseRepoRef extracts owner and repo from a repository reference:
// either "owner/repo" or a full repository URL.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	trimmed := ref
	for _, prefix := range []string{"https://github.com/", "http://github.com/", "github.com/"} {
		if strings.HasPrefix(trimmed, prefix) {
			trimmed = strings.TrimPrefix(trimmed, prefix)
			break
		}
	}
	trimmed = strings.Trim(trimmed, "/")

	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", docdex.Errorf(docdex.EINVALID, "invalid repository reference %q (expected owner/repo)", ref)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// isDocFile classifies a file as documentation-relevant by extension
// allow-list or case-insensitive filename prefix.
func isDocFile(name string) bool {
	lower := strings.ToLower(name)
	if docFileExtensions[path.Ext(lower)] {
		return true
	}
	for _, prefix := range docFilePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// isDocDir reports whether a directory name is documentation-shaped.
func isDocDir(name string) bool {
	return docDirNames[strings.ToLower(name)]
}
