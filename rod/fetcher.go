package rod

import (
	"context"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements docdex.Fetcher at compile time.
var _ docdex.Fetcher = (*Fetcher)(nil)

// DefaultPageTimeout bounds navigation and rendering of a single page.
const DefaultPageTimeout = 30 * time.Second

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithPageTimeout sets the per-page rendering timeout.
func WithPageTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	manager, err := NewBrowserManager()
	if err != nil {
		return nil, err
	}

	f := &Fetcher{manager: manager, timeout: DefaultPageTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", docdex.Errorf(docdex.EUNAVAILABLE, "opening page for %q: %v", url, err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", docdex.Errorf(docdex.EUNAVAILABLE, "navigating to %q: %v", url, err)
	}

	if err := page.WaitLoad(); err != nil {
		return "", docdex.Errorf(docdex.EUNAVAILABLE, "waiting for %q to load: %v", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", docdex.Errorf(docdex.EUNAVAILABLE, "reading HTML of %q: %v", url, err)
	}

	f.manager.IncrementPageCount()
	return html, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
