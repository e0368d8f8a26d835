package docdex

import "context"

// Fetcher retrieves raw HTML from URLs.
//
// Implementations classify failures with application error codes so callers
// can branch explicitly: ENOTFOUND for a 404 (silent skip, never retried),
// EUNAVAILABLE for network failures and 5xx responses (retryable), and
// EINTERNAL for everything else.
type Fetcher interface {
	// Fetch retrieves the HTML content from the given URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources (browser processes, connections).
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// IsNotFoundSkip reports whether a fetch error means the document is gone
// and should be skipped silently.
func IsNotFoundSkip(err error) bool {
	return ErrorCode(err) == ENOTFOUND
}

// IsRetryableFetch reports whether a fetch error is transient and worth
// another attempt.
func IsRetryableFetch(err error) bool {
	return ErrorCode(err) == EUNAVAILABLE
}

// DomainLimiter provides per-domain rate limiting for fetches.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
