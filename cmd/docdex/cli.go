package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	DB         *sqlite.DB
	Engine     docdex.Engine
	Quota      docdex.QuotaService
	QuotaAdmin *sqlite.QuotaService
	Sources    docdex.SourceService
	Workspaces docdex.WorkspaceService
	Cipher     docdex.Cipher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Discover  DiscoverCmd  `cmd:"" help:"Run the discovery cascade against a site or repository"`
	Add       AddCmd       `cmd:"" help:"Register a documentation source"`
	List      ListCmd      `cmd:"" help:"List registered sources"`
	Delete    DeleteCmd    `cmd:"" help:"Delete a source"`
	Quota     QuotaCmd     `cmd:"" help:"Show quota usage for an account"`
	SetLimit  SetLimitCmd  `cmd:"" name:"set-limit" help:"Provision a quota limit for an account"`
	Workspace WorkspaceCmd `cmd:"" help:"Manage workspaces"`
	Secret    SecretCmd    `cmd:"" help:"Encrypt and decrypt stored secrets"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	Target      string `arg:"" help:"Base URL or repository reference (owner/repo)"`
	Repo        bool   `short:"r" help:"Treat the target as a repository reference"`
	Max         int    `short:"m" help:"Maximum documents to discover (0 = unlimited)"`
	Depth       int    `short:"d" help:"Maximum sitemap index nesting depth"`
	Concurrency int    `short:"c" default:"5" help:"Concurrent fetch limit"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Account   string `arg:"" help:"Account ID"`
	Ref       string `arg:"" help:"Base URL or repository reference"`
	Repo      bool   `short:"r" help:"Treat the ref as a repository reference"`
	Workspace string `short:"w" help:"Workspace ID"`
	Max       int    `short:"m" help:"Maximum documents to discover (0 = unlimited)"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Account string `arg:"" help:"Account ID"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Source ID"`
	Force bool   `help:"Confirm deletion"`
}

// QuotaCmd is the "quota" subcommand.
type QuotaCmd struct {
	Account string `arg:"" help:"Account ID"`
}

// SetLimitCmd is the "set-limit" subcommand.
type SetLimitCmd struct {
	Account   string `arg:"" help:"Account ID"`
	Dimension string `arg:"" help:"Quota dimension (search, source, workspace, page)"`
	Limit     int    `arg:"" help:"Limit value (-1 for unlimited)"`
}

// WorkspaceCmd groups the workspace subcommands.
type WorkspaceCmd struct {
	Add  WorkspaceAddCmd  `cmd:"" help:"Create a workspace"`
	List WorkspaceListCmd `cmd:"" help:"List an account's workspaces"`
}

// WorkspaceAddCmd is the "workspace add" subcommand.
type WorkspaceAddCmd struct {
	Account string `arg:"" help:"Account ID"`
	Name    string `arg:"" help:"Workspace name"`
}

// WorkspaceListCmd is the "workspace list" subcommand.
type WorkspaceListCmd struct {
	Account string `arg:"" help:"Account ID"`
}

// SecretCmd groups the secret subcommands.
type SecretCmd struct {
	Encrypt SecretEncryptCmd `cmd:"" help:"Encrypt a plaintext value"`
	Decrypt SecretDecryptCmd `cmd:"" help:"Decrypt an encrypted token"`
}

// SecretEncryptCmd is the "secret encrypt" subcommand.
type SecretEncryptCmd struct {
	Value string `arg:"" help:"Plaintext value to encrypt"`
}

// SecretDecryptCmd is the "secret decrypt" subcommand.
type SecretDecryptCmd struct {
	Token string `arg:"" help:"Encrypted token to decrypt"`
}
