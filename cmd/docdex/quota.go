package main

import (
	"fmt"

	"github.com/docdex/docdex"
)

// Run executes the quota command.
func (c *QuotaCmd) Run(deps *Dependencies) error {
	statuses, err := deps.Quota.CheckAll(deps.Ctx, c.Account)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	for _, s := range statuses {
		if s.Limit == docdex.Unlimited {
			fmt.Fprintf(deps.Stdout, "%-10s  %d used (unlimited)\n", s.Dimension, s.Used)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%-10s  %d of %d used (%.0f%%)\n", s.Dimension, s.Used, s.Limit, *s.Percentage)
	}

	warnings := docdex.WarningsFromStatuses(statuses)
	for _, w := range warnings {
		fmt.Fprintf(deps.Stdout, "warning: %s quota %s (%d of %d)\n", w.Dimension, w.Level, w.Used, w.Limit)
	}

	return nil
}

// Run executes the set-limit command.
func (c *SetLimitCmd) Run(deps *Dependencies) error {
	dim := docdex.QuotaDimension(c.Dimension)
	if !dim.Valid() {
		fmt.Fprintf(deps.Stderr, "error: unknown quota dimension %q\n", c.Dimension)
		return docdex.Errorf(docdex.EINVALID, "unknown quota dimension %q", c.Dimension)
	}

	if err := deps.QuotaAdmin.SetLimit(deps.Ctx, c.Account, dim, c.Limit, nil); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	if c.Limit == docdex.Unlimited {
		fmt.Fprintf(deps.Stdout, "Set %s quota for %s to unlimited\n", dim, c.Account)
	} else {
		fmt.Fprintf(deps.Stdout, "Set %s quota for %s to %d\n", dim, c.Account, c.Limit)
	}
	return nil
}
