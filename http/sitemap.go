package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/beevik/etree"
	"github.com/docdex/docdex"
	"github.com/docdex/docdex/discover"
	"golang.org/x/sync/errgroup"
)

// sitemapProbePaths are the conventional sitemap locations probed in order.
var sitemapProbePaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
}

// Compile-time interface verification.
var _ docdex.DiscoveryStrategy = (*SitemapStrategy)(nil)

// SitemapStrategy discovers document URLs from sitemaps. Sitemap
// indexes are expanded through an explicit work queue carrying depth,
// with children fetched in fixed-size concurrent batches. A branch that
// exceeds the depth cap is truncated silently; a single child fetch
// failure is logged and skipped, never aborting the run.
type SitemapStrategy struct {
	client *Client
	logger *slog.Logger
}

// NewSitemapStrategy creates a SitemapStrategy.
func NewSitemapStrategy(client *Client, logger *slog.Logger) *SitemapStrategy {
	return &SitemapStrategy{client: client, logger: logger}
}

// Name implements docdex.DiscoveryStrategy.
func (s *SitemapStrategy) Name() docdex.DiscoveryStrategyName {
	return docdex.StrategySitemap
}

// sitemapPage is one parsed sitemap document.
type sitemapPage struct {
	// index is true for <sitemapindex> documents.
	index bool

	// children holds child sitemap URLs for index documents.
	children []string

	// urls holds leaf <loc> URLs for urlset documents.
	urls []string
}

// Discover probes the conventional sitemap paths and expands every
// resolving sitemap into one deduplicated URL set, preserving
// first-seen order.
func (s *SitemapStrategy) Discover(ctx context.Context, req *docdex.DiscoveryRequest) (*docdex.DiscoveryResult, error) {
	if req.BaseURL == "" {
		return &docdex.DiscoveryResult{}, nil
	}

	queue := discover.NewQueue()
	for _, path := range sitemapProbePaths {
		probeURL, err := resolvePath(req.BaseURL, path)
		if err != nil {
			return nil, docdex.Errorf(docdex.EINVALID, "invalid base URL %q", req.BaseURL)
		}
		queue.Push(probeURL, 0)
	}

	seen := make(map[string]bool)
	var urls []string

	for queue.Len() > 0 && !req.AtCap(len(urls)) {
		batch := queue.PopN(req.Batch())
		pages := make([]*sitemapPage, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		for i, task := range batch {
			g.Go(func() error {
				page, err := s.fetchSitemap(gctx, task.Ref)
				if err != nil {
					// Depth 0 holds the probes, which fail on most
					// sites; only deeper failures are worth logging.
					if task.Depth > 0 {
						s.logger.Warn("child sitemap fetch failed", "url", task.Ref, "err", err)
					}
					return nil
				}
				pages[i] = page
				return nil
			})
		}
		_ = g.Wait()

		if ctx.Err() != nil {
			// Canceled: in-flight batch completed above, but no further
			// batches are scheduled.
			break
		}

		for i, page := range pages {
			if page == nil {
				continue
			}
			if page.index {
				next := batch[i].Depth + 1
				if next > req.Depth() {
					continue
				}
				for _, child := range page.children {
					queue.Push(child, next)
				}
				continue
			}
			for _, u := range page.urls {
				if req.AtCap(len(urls)) {
					break
				}
				if seen[u] {
					continue
				}
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}

	docs := make([]*docdex.Document, 0, len(urls))
	for _, u := range urls {
		docs = append(docs, &docdex.Document{
			URL:      u,
			Strategy: docdex.StrategySitemap,
		})
	}

	return &docdex.DiscoveryResult{Found: len(docs) > 0, Documents: docs}, nil
}

// fetchSitemap fetches and parses one sitemap document, detecting
// whether it is a sitemap index or a leaf urlset.
func (s *SitemapStrategy) fetchSitemap(ctx context.Context, sitemapURL string) (*sitemapPage, error) {
	body, status, err := s.client.Get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", status, sitemapURL)
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML")
	}

	page := &sitemapPage{}
	if root.Tag == "sitemapindex" {
		page.index = true
		for _, el := range root.SelectElements("sitemap") {
			loc := el.SelectElement("loc")
			if loc == nil {
				continue
			}
			if u := strings.TrimSpace(loc.Text()); u != "" {
				page.children = append(page.children, u)
			}
		}
		return page, nil
	}

	for _, el := range root.SelectElements("url") {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			page.urls = append(page.urls, u)
		}
	}
	return page, nil
}
