package main

import (
	"fmt"
	"regexp"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/crawl"
	"github.com/fwojciec/docdex/goquery"
	"github.com/fwojciec/docdex/trafilatura"
)

// compileFilter builds a URL filter from regex patterns, validating early.
func compileFilter(patterns []string) (*docdex.URLFilter, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	filter := &docdex.URLFilter{}
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, docdex.Errorf(docdex.EINVALID, "invalid filter pattern %q: %v", pattern, err)
		}
		filter.Include = append(filter.Include, re)
	}
	return filter, nil
}

// buildRouter fetches the product mappings and compiles the routing table,
// restricted to the index allow-list when one is given.
func buildRouter(deps *Dependencies, allowList []string) (*docdex.Router, error) {
	mappings, err := deps.Mappings.FetchMappings(deps.Ctx)
	if err != nil {
		return nil, err
	}
	router := docdex.NewRouter(docdex.RulesFromMappings(mappings))
	if len(allowList) > 0 {
		router.SetAllowList(allowList)
	}
	return router, nil
}

// runCrawl executes the crawl phase and returns the per-index record
// batches, reporting progress to the CLI's output streams.
func runCrawl(deps *Dependencies, baseURL string, filters []string, allowList []string, concurrency int, dumper docdex.PageDumper) ([]docdex.RecordBatch, *crawl.Stats, error) {
	filter, err := compileFilter(filters)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return nil, nil, err
	}

	router, err := buildRouter(deps, allowList)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return nil, nil, err
	}

	crawler := &crawl.Crawler{
		Sitemaps:    deps.Sitemaps,
		Fetcher:     deps.Fetcher,
		Segmenter:   goquery.NewSegmenter(),
		Extractor:   trafilatura.NewExtractor(),
		Router:      router,
		Limiter:     crawl.NewDomainLimiter(deps.Config.RequestsPerDomain),
		Dumper:      dumper,
		Settings:    deps.Settings,
		Concurrency: concurrency,
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d URLs\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Error)
		}
	}

	batches, stats, err := crawler.Run(deps.Ctx, baseURL, filter, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return nil, stats, err
	}

	fmt.Fprintf(deps.Stdout, "  Processed %d pages: %d records, %d skipped, %d failed (run %s)\n",
		stats.Processed, stats.Generated, stats.NotFound+stats.NoRoute, stats.Failed, stats.RunID)
	return batches, stats, nil
}
