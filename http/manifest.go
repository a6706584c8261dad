package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/docdex/docdex"
)

// Well-known manifest paths.
const (
	FullManifestPath    = "/llms-full.txt"
	SummaryManifestPath = "/llms.txt"
)

// Compile-time interface verification.
var (
	_ docdex.DiscoveryStrategy = (*FullManifestStrategy)(nil)
	_ docdex.DiscoveryStrategy = (*SummaryManifestStrategy)(nil)
)

// FullManifestStrategy probes for a full-content manifest. When present
// and non-empty, its entire content becomes the document set as one
// synthetic document, short-circuiting all other strategies.
type FullManifestStrategy struct {
	client *Client
	logger *slog.Logger
}

// NewFullManifestStrategy creates a FullManifestStrategy.
func NewFullManifestStrategy(client *Client, logger *slog.Logger) *FullManifestStrategy {
	return &FullManifestStrategy{client: client, logger: logger}
}

// Name implements docdex.DiscoveryStrategy.
func (s *FullManifestStrategy) Name() docdex.DiscoveryStrategyName {
	return docdex.StrategyManifestFull
}

// Discover fetches the full manifest. Absence, emptiness, and transport
// failures are normal "strategy unavailable" outcomes.
func (s *FullManifestStrategy) Discover(ctx context.Context, req *docdex.DiscoveryRequest) (*docdex.DiscoveryResult, error) {
	if req.BaseURL == "" {
		return &docdex.DiscoveryResult{}, nil
	}

	manifestURL, err := resolvePath(req.BaseURL, FullManifestPath)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "invalid base URL %q", req.BaseURL)
	}

	body, status, err := s.client.Get(ctx, manifestURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Debug("full manifest unavailable", "url", manifestURL, "err", err)
		return &docdex.DiscoveryResult{}, nil
	}
	if status != http.StatusOK {
		return &docdex.DiscoveryResult{}, nil
	}

	content := string(body)
	if strings.TrimSpace(content) == "" {
		return &docdex.DiscoveryResult{}, nil
	}

	doc := &docdex.Document{
		URL:         manifestURL,
		Content:     content,
		SizeBytes:   int64(len(body)),
		Strategy:    docdex.StrategyManifestFull,
		ContentHash: hashContent(content),
	}
	return &docdex.DiscoveryResult{Found: true, Documents: []*docdex.Document{doc}}, nil
}

// SummaryManifestStrategy probes for a summary manifest. Its embedded
// links become the documents to fetch later; content is not inlined.
type SummaryManifestStrategy struct {
	client *Client
	logger *slog.Logger
}

// NewSummaryManifestStrategy creates a SummaryManifestStrategy.
func NewSummaryManifestStrategy(client *Client, logger *slog.Logger) *SummaryManifestStrategy {
	return &SummaryManifestStrategy{client: client, logger: logger}
}

// Name implements docdex.DiscoveryStrategy.
func (s *SummaryManifestStrategy) Name() docdex.DiscoveryStrategyName {
	return docdex.StrategyManifestSummary
}

// Discover fetches the summary manifest and extracts its links.
func (s *SummaryManifestStrategy) Discover(ctx context.Context, req *docdex.DiscoveryRequest) (*docdex.DiscoveryResult, error) {
	if req.BaseURL == "" {
		return &docdex.DiscoveryResult{}, nil
	}

	manifestURL, err := resolvePath(req.BaseURL, SummaryManifestPath)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "invalid base URL %q", req.BaseURL)
	}

	body, status, err := s.client.Get(ctx, manifestURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Debug("summary manifest unavailable", "url", manifestURL, "err", err)
		return &docdex.DiscoveryResult{}, nil
	}
	if status != http.StatusOK || strings.TrimSpace(string(body)) == "" {
		return &docdex.DiscoveryResult{}, nil
	}

	links := ExtractManifestLinks(string(body), manifestURL)

	docs := make([]*docdex.Document, 0, len(links))
	for _, link := range links {
		if req.AtCap(len(docs)) {
			break
		}
		docs = append(docs, &docdex.Document{
			URL:      link,
			Strategy: docdex.StrategyManifestSummary,
		})
	}

	return &docdex.DiscoveryResult{Found: len(docs) > 0, Documents: docs}, nil
}

var (
	// markdownLinkRe matches [text](url) style links.
	markdownLinkRe = regexp.MustCompile(`\[[^\]]*\]\(([^)\s]+)\)`)

	// bareURLRe matches bare absolute URLs.
	bareURLRe = regexp.MustCompile(`https?://[^\s<>"')\]]+`)
)

// ExtractManifestLinks extracts document links from manifest content
// using two independent passes: markdown-style links and bare absolute
// URLs. Links are resolved against the manifest URL, deduplicated, and
// returned in first-seen order. Malformed URLs are skipped individually.
func ExtractManifestLinks(content, manifestURL string) []string {
	base, err := url.Parse(manifestURL)
	if err != nil {
		return nil
	}

	var candidates []string
	for _, m := range markdownLinkRe.FindAllStringSubmatch(content, -1) {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, bareURLRe.FindAllString(content, -1)...)

	seen := make(map[string]bool)
	var links []string
	for _, raw := range candidates {
		ref, err := url.Parse(raw)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			continue
		}
		if resolved.Host == "" {
			continue
		}
		resolved.Fragment = ""
		u := resolved.String()
		if seen[u] {
			continue
		}
		seen[u] = true
		links = append(links, u)
	}
	return links
}

// hashContent computes an xxhash of the content.
func hashContent(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
