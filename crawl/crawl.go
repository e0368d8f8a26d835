// Package crawl orchestrates the indexing pipeline: sitemap discovery,
// bounded-concurrency fetching, path routing, content segmentation and
// record synthesis, accumulating per-index record batches for
// reconciliation.
package crawl

import (
	"context"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/scheduler"
	"github.com/google/uuid"
)

// Crawler runs the crawl phase for one base URL.
type Crawler struct {
	Sitemaps    docdex.SitemapService
	Fetcher     docdex.Fetcher
	Segmenter   docdex.Segmenter
	Extractor   docdex.MainExtractor // optional main-content fallback
	Router      *docdex.Router
	Limiter     docdex.DomainLimiter // optional per-domain politeness
	Dumper      docdex.PageDumper    // optional local page copies
	Settings    docdex.IndexSettings // applied to every destination index
	Concurrency int
	RetryDelays []time.Duration
}

// Stats aggregates per-URL outcomes. Per-URL failures never escape the task
// boundary; they become counts here.
type Stats struct {
	RunID      string
	Discovered int
	Processed  int
	Generated  int
	NotFound   int
	NoRoute    int
	Empty      int
	Failed     int
	Duplicates int
}

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types.
const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Reason    string
	Error     error
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Run crawls every URL discovered from the base URL's sitemap and returns
// the synthesized records grouped by destination index, sorted by index
// name. Per-URL failures are converted into statistics; only discovery
// failure aborts the run.
func (c *Crawler) Run(ctx context.Context, baseURL string, filter *docdex.URLFilter, progress ProgressFunc) ([]docdex.RecordBatch, *Stats, error) {
	stats := &Stats{RunID: uuid.NewString()}

	entries, err := c.Sitemaps.DiscoverEntries(ctx, baseURL, filter)
	if err != nil {
		return nil, stats, docdex.Errorf(docdex.EUNAVAILABLE, "sitemap discovery: %v", err)
	}

	// Overlapping sitemap indexes commonly repeat URLs. Dedup must be
	// exact: a unique URL misreported as seen would not just be skipped,
	// its remote records would be deleted at reconciliation.
	seen := make(map[string]struct{}, len(entries))
	var unique []docdex.SitemapEntry
	for _, entry := range entries {
		key := docdex.NormalizeURL(entry.Loc)
		if _, ok := seen[key]; ok {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, entry)
	}
	stats.Discovered = len(unique)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: stats.Discovered})
	}

	acc := newAccumulator(c.Settings)
	sched := scheduler.New(c.Concurrency)

	var mu sync.Mutex
	completed := 0
	report := func(event ProgressEvent, update func(*Stats)) {
		mu.Lock()
		completed++
		update(stats)
		event.Completed = completed
		event.Total = stats.Discovered
		mu.Unlock()
		if progress != nil {
			progress(event)
		}
	}

	for _, entry := range unique {
		sched.Add(ctx, func(ctx context.Context) error {
			c.processEntry(ctx, entry, acc, report)
			return nil
		})
	}
	sched.Wait()

	batches := acc.batches()
	for _, b := range batches {
		stats.Generated += len(b.Records)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: stats.Discovered, Total: stats.Discovered})
	}

	return batches, stats, nil
}

// processEntry fetches and processes a single sitemap entry. All failures
// are converted into statistics at this boundary.
func (c *Crawler) processEntry(ctx context.Context, entry docdex.SitemapEntry, acc *accumulator, report func(ProgressEvent, func(*Stats))) {
	loc := entry.Loc

	match := c.routeEntry(loc)
	if match == nil {
		report(ProgressEvent{Type: ProgressSkipped, URL: loc, Reason: "no mapping"}, func(s *Stats) { s.NoRoute++ })
		return
	}

	if c.Limiter != nil {
		if u, err := url.Parse(loc); err == nil {
			if err := c.Limiter.Wait(ctx, u.Host); err != nil {
				report(ProgressEvent{Type: ProgressFailed, URL: loc, Error: err}, func(s *Stats) { s.Failed++ })
				return
			}
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, loc, c.Fetcher.Fetch, nil, delays)
	if err != nil {
		if docdex.IsNotFoundSkip(err) {
			report(ProgressEvent{Type: ProgressSkipped, URL: loc, Reason: "not found"}, func(s *Stats) { s.NotFound++ })
		} else {
			report(ProgressEvent{Type: ProgressFailed, URL: loc, Error: err}, func(s *Stats) { s.Failed++ })
		}
		return
	}

	page, err := c.Segmenter.Segment(loc, html)
	if err != nil {
		report(ProgressEvent{Type: ProgressFailed, URL: loc, Error: err}, func(s *Stats) { s.Failed++ })
		return
	}

	c.fillMainContent(page, html)

	if c.Dumper != nil {
		// Dump failures never affect the pipeline.
		_ = c.Dumper.DumpPage(ctx, loc, page.Title, html)
	}

	empty := len(page.Segments) == 0 && page.MainText == ""
	records := docdex.Synthesize(page, match, entry.Lastmod, time.Now())
	acc.add(match, records)

	report(ProgressEvent{Type: ProgressCompleted, URL: loc}, func(s *Stats) {
		s.Processed++
		if empty {
			s.Empty++
		}
	})
}

// routeEntry resolves the destination index for a URL's path.
func (c *Crawler) routeEntry(loc string) *docdex.IndexMatch {
	u, err := url.Parse(loc)
	if err != nil {
		return nil
	}
	return c.Router.Match(u.Path)
}

// fillMainContent recovers main content through the extractor when
// segmentation found none, and backfills description and date metadata.
func (c *Crawler) fillMainContent(page *docdex.PageContent, html string) {
	if c.Extractor == nil {
		return
	}
	if page.MainText != "" && page.Description != "" && page.Meta.LastModified != "" {
		return
	}
	main, err := c.Extractor.ExtractMain(html)
	if err != nil || main == nil {
		return
	}
	if page.MainText == "" {
		page.MainText = main.Text
	}
	if page.Description == "" {
		page.Description = main.Description
	}
	if page.Meta.LastModified == "" {
		page.Meta.LastModified = main.Date
	}
	if page.Title == "" {
		page.Title = main.Title
	}
}

// accumulator owns the per-index record map: append-only during the crawl
// phase, read-only afterwards.
type accumulator struct {
	mu       sync.Mutex
	settings docdex.IndexSettings
	byIndex  map[string]*docdex.RecordBatch
}

func newAccumulator(settings docdex.IndexSettings) *accumulator {
	return &accumulator{
		settings: settings,
		byIndex:  make(map[string]*docdex.RecordBatch),
	}
}

func (a *accumulator) add(match *docdex.IndexMatch, records []docdex.SearchRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	batch, ok := a.byIndex[match.IndexName]
	if !ok {
		batch = &docdex.RecordBatch{
			IndexName: match.IndexName,
			Product:   match.Product,
			Settings:  a.settings,
		}
		a.byIndex[match.IndexName] = batch
	}
	batch.Records = append(batch.Records, records...)
}

func (a *accumulator) batches() []docdex.RecordBatch {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]docdex.RecordBatch, 0, len(a.byIndex))
	for _, batch := range a.byIndex {
		out = append(out, *batch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IndexName < out[j].IndexName })
	return out
}
