package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/fwojciec/docdex"
	dochttp "github.com/fwojciec/docdex/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func urlset(entries ...string) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><urlset>`
	for _, e := range entries {
		body += e
	}
	return body + `</urlset>`
}

func urlEntry(loc string) string {
	return fmt.Sprintf("<url><loc>%s</loc></url>", loc)
}

func urlEntryLastmod(loc, lastmod string) string {
	return fmt.Sprintf("<url><loc>%s</loc><lastmod>%s</lastmod></url>", loc, lastmod)
}

func TestSitemapService_DiscoverEntries_RobotsDirective(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprintf(w, "User-agent: *\nDisallow: /private\nSitemap: %s/custom-sitemap.xml\n", srv.URL)
		case "/custom-sitemap.xml":
			fmt.Fprint(w, urlset(
				urlEntryLastmod(srv.URL+"/docs/go/install", "2026-01-10"),
				urlEntry(srv.URL+"/docs/go/usage"),
			))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := dochttp.NewSitemapService(srv.Client())
	entries, err := s.DiscoverEntries(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, srv.URL+"/docs/go/install", entries[0].Loc)
	assert.Equal(t, "2026-01-10", entries[0].Lastmod)
	assert.Empty(t, entries[1].Lastmod)
}

func TestSitemapService_DiscoverEntries_SitemapXMLFallback(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			w.WriteHeader(http.StatusNotFound)
		case "/sitemap.xml":
			fmt.Fprint(w, urlset(urlEntry(srv.URL+"/docs/page")))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := dochttp.NewSitemapService(srv.Client())
	entries, err := s.DiscoverEntries(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, srv.URL+"/docs/page", entries[0].Loc)
}

func TestSitemapService_DiscoverEntries_NoSitemap(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := dochttp.NewSitemapService(srv.Client())
	entries, err := s.DiscoverEntries(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries, "empty slice, not nil")
}

func TestSitemapService_DiscoverEntries_SitemapIndex(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprintf(w, "Sitemap: %s/sitemap-index.xml\n", srv.URL)
		case "/sitemap-index.xml":
			fmt.Fprintf(w, `<?xml version="1.0"?><sitemapindex>
				<sitemap><loc>%s/sitemap-a.xml</loc></sitemap>
				<sitemap><loc>%s/sitemap-b.xml</loc></sitemap>
				<sitemap><loc>%s/sitemap-index.xml</loc></sitemap>
			</sitemapindex>`, srv.URL, srv.URL, srv.URL)
		case "/sitemap-a.xml":
			fmt.Fprint(w, urlset(urlEntry(srv.URL+"/docs/a"), urlEntry(srv.URL+"/docs/shared")))
		case "/sitemap-b.xml":
			fmt.Fprint(w, urlset(urlEntry(srv.URL+"/docs/b"), urlEntry(srv.URL+"/docs/shared")))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := dochttp.NewSitemapService(srv.Client())
	entries, err := s.DiscoverEntries(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	// Self-referencing index does not recurse forever; URLs repeated across
	// child sitemaps appear once.
	locs := make([]string, len(entries))
	for i, e := range entries {
		locs[i] = e.Loc
	}
	assert.Equal(t, []string{srv.URL + "/docs/a", srv.URL + "/docs/shared", srv.URL + "/docs/b"}, locs)
}

func TestSitemapService_DiscoverEntries_PathPrefix(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", srv.URL)
		case "/sitemap.xml":
			fmt.Fprint(w, urlset(
				urlEntry(srv.URL+"/docs/go/install"),
				urlEntry(srv.URL+"/documentation/other"),
				urlEntry(srv.URL+"/blog/post"),
			))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := dochttp.NewSitemapService(srv.Client())
	entries, err := s.DiscoverEntries(context.Background(), srv.URL+"/docs", nil)
	require.NoError(t, err)

	// /docs matches on a path boundary: /documentation is out.
	require.Len(t, entries, 1)
	assert.Equal(t, srv.URL+"/docs/go/install", entries[0].Loc)
}

func TestSitemapService_DiscoverEntries_Filter(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", srv.URL)
		case "/sitemap.xml":
			fmt.Fprint(w, urlset(
				urlEntry(srv.URL+"/docs/go/install"),
				urlEntry(srv.URL+"/docs/py/install"),
			))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	filter := &docdex.URLFilter{Include: []*regexp.Regexp{regexp.MustCompile(`/docs/go/`)}}

	s := dochttp.NewSitemapService(srv.Client())
	entries, err := s.DiscoverEntries(context.Background(), srv.URL, filter)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, srv.URL+"/docs/go/install", entries[0].Loc)
}

func TestSitemapService_DiscoverEntries_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	s := dochttp.NewSitemapService(nil)
	_, err := s.DiscoverEntries(context.Background(), "://bad", nil)
	require.Error(t, err)
	assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
}
