// Command docdex crawls documentation sites and reconciles synthesized
// search records into per-product search indexes.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docdex"
	dochttp "github.com/fwojciec/docdex/http"
	"github.com/fwojciec/docdex/rod"
	docslog "github.com/fwojciec/docdex/slog"
	"github.com/fwojciec/docdex/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Configuration loaded from the environment. Tests may set this before
	// calling Run to skip environment loading.
	Config *Config

	// SQLite database used when a local index target is configured.
	DB *sqlite.DB

	// Services overridable for end-to-end testing.
	Mappings docdex.MappingService
	Index    docdex.IndexService
	Fetcher  docdex.Fetcher
	Sitemaps docdex.SitemapService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
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
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
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

	if m.Config == nil {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		m.Config = cfg
	}
	needsIndex := cmd == "sync" || cmd == "plan"
	if err := m.Config.Validate(needsIndex); err != nil {
		return err
	}
	deps.Config = m.Config

	settings, err := m.Config.LoadIndexSettings()
	if err != nil {
		return err
	}
	deps.Settings = settings

	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelInfo
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	// Mapping resource
	if m.Mappings == nil {
		m.Mappings = dochttp.NewMappingService(nil, m.Config.MappingURL)
	}
	deps.Mappings = m.Mappings

	// Index target: remote service, or local SQLite when configured
	if needsIndex && m.Index == nil {
		if m.Config.IndexURL != "" {
			m.Index = dochttp.NewIndexService(nil, m.Config.IndexURL, m.Config.IndexAPIKey)
		} else {
			m.DB = sqlite.NewDB(m.Config.DBPath)
			if err := m.DB.Open(); err != nil {
				fmt.Fprintf(stderr, "Hint: Set DOCDEX_DB to use a different database path\n")
				return fmt.Errorf("failed to open database at %q: %w", m.Config.DBPath, err)
			}
			m.Index = sqlite.NewIndexService(m.DB)
		}
	}
	deps.Index = m.Index
	if cli.Verbose && deps.Index != nil {
		deps.Index = docslog.NewLoggingIndexService(deps.Index, deps.Logger)
	}

	if m.Sitemaps == nil {
		m.Sitemaps = dochttp.NewSitemapService(nil)
	}
	deps.Sitemaps = m.Sitemaps
	if cli.Verbose {
		deps.Sitemaps = docslog.NewLoggingSitemapService(deps.Sitemaps, deps.Logger)
	}

	// Fetcher: plain HTTP unless the command asks for browser rendering
	if cmd == "sync" || cmd == "plan" || cmd == "export" {
		if m.Fetcher == nil {
			render := cli.Sync.Render || cli.Plan.Render || cli.Export.Render
			if render {
				fetcher, err := rod.NewFetcher()
				if err != nil {
					fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
					return fmt.Errorf("failed to start browser: %w", err)
				}
				m.Fetcher = fetcher
			} else {
				m.Fetcher = dochttp.NewFetcher()
			}
		}
		defer m.Fetcher.Close()
		deps.Fetcher = m.Fetcher
		if cli.Verbose {
			deps.Fetcher = docslog.NewLoggingFetcher(deps.Fetcher, deps.Logger)
		}
	}

	return kongCtx.Run(deps)
}
