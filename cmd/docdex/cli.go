package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/docdex"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Config   *Config
	Logger   *slog.Logger
	Settings docdex.IndexSettings
	Mappings docdex.MappingService
	Index    docdex.IndexService
	Fetcher  docdex.Fetcher
	Sitemaps docdex.SitemapService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Sync   SyncCmd   `cmd:"" help:"Crawl documentation and reconcile records into search indexes"`
	Plan   PlanCmd   `cmd:"" help:"Crawl and show the change set without touching any index"`
	Export ExportCmd `cmd:"" help:"Crawl and write per-index JSON exports to a directory"`
	Routes RoutesCmd `cmd:"" help:"Print the resolved routing table"`

	Verbose bool `short:"v" help:"Enable service-level logging"`
}

// SyncCmd is the "sync" subcommand.
type SyncCmd struct {
	URL         string   `arg:"" help:"Documentation base URL"`
	Concurrency int      `short:"c" default:"5" help:"Concurrent fetch limit"`
	Force       bool     `help:"Rewrite records regardless of timestamps"`
	FullReindex bool     `help:"Replace each index's contents entirely"`
	Index       []string `help:"Only sync the named indexes (repeatable)"`
	Render      bool     `help:"Fetch with a headless browser for JS-rendered sites"`
	Filter      []string `short:"F" name:"filter" help:"Filter URLs by regex (repeatable)"`
}

// PlanCmd is the "plan" subcommand.
type PlanCmd struct {
	URL         string   `arg:"" help:"Documentation base URL"`
	Concurrency int      `short:"c" default:"5" help:"Concurrent fetch limit"`
	Force       bool     `help:"Plan as if rewriting regardless of timestamps"`
	FullReindex bool     `help:"Plan a full replacement of each index"`
	Index       []string `help:"Only plan the named indexes (repeatable)"`
	Render      bool     `help:"Fetch with a headless browser for JS-rendered sites"`
	Filter      []string `short:"F" name:"filter" help:"Filter URLs by regex (repeatable)"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	URL         string   `arg:"" help:"Documentation base URL"`
	Out         string   `short:"o" default:"export" help:"Output directory"`
	Concurrency int      `short:"c" default:"5" help:"Concurrent fetch limit"`
	Index       []string `help:"Only export the named indexes (repeatable)"`
	Render      bool     `help:"Fetch with a headless browser for JS-rendered sites"`
	Filter      []string `short:"F" name:"filter" help:"Filter URLs by regex (repeatable)"`
	DumpPages   bool     `help:"Also write markdown copies of fetched pages"`
}

// RoutesCmd is the "routes" subcommand.
type RoutesCmd struct{}
