// Package rod provides a browser-rendered fetcher for documentation
// sites that build their content client-side.
package rod

import (
	"sync"

	"github.com/fwojciec/docdex"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is how many pages a browser serves before it is replaced.
const DefaultMaxPages = 75

// BrowserManager hands out a shared headless browser and replaces it after a
// fixed number of pages. A long crawl leaks browser memory that per-page
// cleanup never reclaims; swapping in a fresh process bounds the growth.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	maxPages int

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages a browser serves before recycling.
// Defaults to DefaultMaxPages.
func WithMaxPages(n int) ManagerOption {
	return func(m *BrowserManager) {
		m.maxPages = n
	}
}

// NewBrowserManager launches a headless browser. Close must be called when
// the manager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	m := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(m)
	}

	browser, lnchr, err := launch()
	if err != nil {
		return nil, err
	}
	m.browser = browser
	m.launcher = lnchr
	return m, nil
}

// Browser returns the shared browser, replacing it first when the page
// budget is spent. Callers report served pages via IncrementPageCount.
func (m *BrowserManager) Browser() *rod.Browser {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pages >= m.maxPages {
		m.recycle()
	}
	return m.browser
}

// IncrementPageCount records one served page toward the recycling budget.
func (m *BrowserManager) IncrementPageCount() {
	m.mu.Lock()
	m.pages++
	m.mu.Unlock()
}

// Close shuts down the browser. Close is safe to call more than once.
func (m *BrowserManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.shutdown()
}

// recycle replaces the browser with a fresh one. When the replacement fails
// to launch, the old browser stays in service. Callers hold m.mu.
func (m *BrowserManager) recycle() {
	browser, lnchr, err := launch()
	if err != nil {
		return
	}

	old, oldLauncher := m.browser, m.launcher
	m.browser, m.launcher = browser, lnchr
	m.pages = 0

	if old != nil {
		_ = old.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
}

// shutdown closes the browser and kills its launcher. Callers hold m.mu.
func (m *BrowserManager) shutdown() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	return err
}

// launch starts a headless browser with the flags that keep background pages
// from being throttled or starved in constrained environments.
func launch() (*rod.Browser, *launcher.Launcher, error) {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, nil, docdex.Errorf(docdex.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, nil, docdex.Errorf(docdex.EUNAVAILABLE, "connecting to browser: %v", err)
	}
	return browser, lnchr, nil
}
