package main

import (
	"fmt"

	"github.com/docdex/docdex"
)

// Run executes the workspace add command.
func (c *WorkspaceAddCmd) Run(deps *Dependencies) error {
	ws := &docdex.Workspace{AccountID: c.Account, Name: c.Name}
	if err := deps.Workspaces.CreateWorkspace(deps.Ctx, ws); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Created workspace %s (%s)\n", ws.Name, ws.ID)
	return nil
}

// Run executes the workspace list command.
func (c *WorkspaceListCmd) Run(deps *Dependencies) error {
	workspaces, err := deps.Workspaces.FindWorkspaces(deps.Ctx, c.Account)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	if len(workspaces) == 0 {
		fmt.Fprintln(deps.Stdout, "No workspaces found.")
		return nil
	}

	for _, ws := range workspaces {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", ws.ID, ws.Name)
	}

	return nil
}
