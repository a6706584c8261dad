package main

import (
	"fmt"
	"os"

	"github.com/docdex/docdex"
)

// Run executes the add command: quota admission, discovery, then
// registration. Quota exhaustion surfaces as a denial, not a failure.
func (c *AddCmd) Run(deps *Dependencies) error {
	status, err := deps.Quota.Check(deps.Ctx, c.Account, docdex.QuotaSource)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}
	if !status.Allowed {
		fmt.Fprintf(deps.Stderr, "error: source quota exhausted (%d of %d used)\n", status.Used, status.Limit)
		return docdex.Errorf(docdex.ECONFLICT, "source quota exhausted")
	}

	req := &docdex.DiscoveryRequest{MaxDocuments: c.Max}
	source := &docdex.Source{
		AccountID:   c.Account,
		WorkspaceID: c.Workspace,
		Ref:         c.Ref,
		Type:        docdex.SourceTypeWeb,
	}
	if c.Repo {
		req.RepoRef = c.Ref
		source.Type = docdex.SourceTypeRepository
		source.APIToken = os.Getenv("DOCDEX_GITHUB_TOKEN")
	} else {
		req.BaseURL = c.Ref
	}

	docs, err := deps.Engine.Discover(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	source.DocumentCount = len(docs)
	if err := deps.Sources.CreateSource(deps.Ctx, source); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Registered source %s with %d documents\n", source.ID, len(docs))
	return nil
}
