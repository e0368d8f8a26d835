package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortDelays() []time.Duration {
	return []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
}

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("succeeds on first attempt", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "<html>ok</html>", nil
		}

		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, shortDelays())

		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			if calls < 3 {
				return "", docdex.Errorf(docdex.EUNAVAILABLE, "server error")
			}
			return "<html>ok</html>", nil
		}

		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, shortDelays())

		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after delays are exhausted", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", docdex.Errorf(docdex.EUNAVAILABLE, "server error")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, shortDelays())

		require.Error(t, err)
		assert.Equal(t, docdex.EUNAVAILABLE, docdex.ErrorCode(err))
		assert.Equal(t, 4, calls, "1 initial + 3 retries")
	})

	t.Run("does not retry not-found", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", docdex.Errorf(docdex.ENOTFOUND, "page not found")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, shortDelays())

		require.Error(t, err)
		assert.True(t, docdex.IsNotFoundSkip(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("logs retries", func(t *testing.T) {
		t.Parallel()

		logged := 0
		logger := func(format string, args ...any) { logged++ }
		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			if calls == 1 {
				return "", docdex.Errorf(docdex.EUNAVAILABLE, "server error")
			}
			return "ok", nil
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, logger, shortDelays())

		require.NoError(t, err)
		assert.Equal(t, 1, logged)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(ctx context.Context, url string) (string, error) {
			cancel()
			return "", docdex.Errorf(docdex.EUNAVAILABLE, "server error")
		}

		_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com", fetch, nil, []time.Duration{time.Minute})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("paces requests within a domain", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(100)
		ctx := context.Background()

		begin := time.Now()
		for i := 0; i < 3; i++ {
			require.NoError(t, limiter.Wait(ctx, "docs.example.com"))
		}
		// Two paced waits at 100 rps is at least ~20ms.
		assert.GreaterOrEqual(t, time.Since(begin), 15*time.Millisecond)
	})

	t.Run("domains are independent", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(100)
		ctx := context.Background()

		begin := time.Now()
		require.NoError(t, limiter.Wait(ctx, "a.example.com"))
		require.NoError(t, limiter.Wait(ctx, "b.example.com"))
		require.NoError(t, limiter.Wait(ctx, "c.example.com"))
		assert.Less(t, time.Since(begin), 15*time.Millisecond)
	})

	t.Run("non-positive rate disables limiting", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(0)
		ctx := context.Background()

		begin := time.Now()
		for i := 0; i < 100; i++ {
			require.NoError(t, limiter.Wait(ctx, "docs.example.com"))
		}
		assert.Less(t, time.Since(begin), 10*time.Millisecond)
	})
}
