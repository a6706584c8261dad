package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/docdex/docdex"
	"github.com/docdex/docdex/discover"
	docdexhttp "github.com/docdex/docdex/http"
	"github.com/docdex/docdex/secret"
	docdexslog "github.com/docdex/docdex/slog"
	"github.com/docdex/docdex/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SourceService docdex.SourceService
	QuotaService  docdex.QuotaService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel()}))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docdex"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docdex --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCDEX_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	var cipher docdex.Cipher
	if passphrase := os.Getenv("DOCDEX_PASSPHRASE"); passphrase != "" {
		c, err := secret.NewCipher(passphrase)
		if err != nil {
			return fmt.Errorf("failed to create token cipher: %w", err)
		}
		cipher = c
	}

	quota := sqlite.NewQuotaService(m.DB)
	m.QuotaService = docdexslog.NewLoggingQuotaService(quota, logger)
	m.SourceService = sqlite.NewSourceService(m.DB, cipher)

	deps.DB = m.DB
	deps.Cipher = cipher
	deps.Quota = m.QuotaService
	deps.QuotaAdmin = quota
	deps.Sources = m.SourceService
	deps.Workspaces = sqlite.NewWorkspaceService(m.DB)
	deps.Engine = docdexslog.NewLoggingEngine(newEngine(logger), logger)

	return kongCtx.Run(deps)
}

// defaultHostRPS throttles outbound discovery fetches per origin.
const defaultHostRPS = 2.0

// newEngine assembles the discovery cascade in priority order.
func newEngine(logger *slog.Logger) docdex.Engine {
	client := docdexhttp.NewClient(
		docdexhttp.WithLimiter(discover.NewHostLimiter(defaultHostRPS, docdex.DefaultConcurrency)),
		docdexhttp.WithRetryDelays(discover.DefaultRetryDelays()),
	)

	return discover.NewCascadeEngine(logger,
		docdexhttp.NewFullManifestStrategy(client, logger),
		docdexhttp.NewSummaryManifestStrategy(client, logger),
		docdexhttp.NewSitemapStrategy(client, logger),
		docdexhttp.NewRepoStrategy(client, os.Getenv("DOCDEX_GITHUB_TOKEN"), logger),
	)
}

func logLevel() slog.Level {
	if os.Getenv("DOCDEX_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func defaultDBPath() string {
	if path := os.Getenv("DOCDEX_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docdex.db"
	}
	dir := filepath.Join(home, ".docdex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docdex.db")
}
