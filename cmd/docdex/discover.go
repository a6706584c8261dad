package main

import (
	"fmt"

	"github.com/docdex/docdex"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	req := &docdex.DiscoveryRequest{
		MaxDocuments: c.Max,
		MaxDepth:     c.Depth,
		Concurrency:  c.Concurrency,
	}
	if c.Repo {
		req.RepoRef = c.Target
	} else {
		req.BaseURL = c.Target
	}

	docs, err := deps.Engine.Discover(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents discovered.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Discovered %d documents via %s:\n", len(docs), docs[0].Strategy)
	for _, doc := range docs {
		if doc.SizeBytes > 0 {
			fmt.Fprintf(deps.Stdout, "  %s (%d bytes)\n", doc.URL, doc.SizeBytes)
		} else {
			fmt.Fprintf(deps.Stdout, "  %s\n", doc.URL)
		}
	}

	return nil
}
