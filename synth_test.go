package docdex_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var synthNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func testMatch() *docdex.IndexMatch {
	return &docdex.IndexMatch{
		IndexName: "docs-go",
		Product:   "Go SDK",
		Prefix:    "/docs/go",
		Path:      "/docs/go/install",
	}
}

func longBody(seed string) string {
	return seed + " " + strings.Repeat("This segment carries enough cleaned content to qualify for its own record. ", 2)
}

func TestSynthesize_BaseAndSectionRecords(t *testing.T) {
	t.Parallel()

	page := &docdex.PageContent{
		URL:         "https://docs.example.com/docs/go/install",
		Title:       "Install Guide",
		Description: "How to install the Go SDK.",
		MainText:    "Download and verify the release.",
		Headings:    []string{"Install Guide", "Download", "Verify"},
		Segments: []docdex.ContentSegment{
			{Heading: "Download", Level: 2, Body: longBody("Grab the archive.")},
			{Heading: "Verify", Level: 2, Body: longBody("Check the checksum.")},
		},
		Meta: docdex.PageMetadata{Topics: []string{"install"}},
	}

	records := docdex.Synthesize(page, testMatch(), "2026-01-10", synthNow)
	require.Len(t, records, 3)

	base := records[0]
	assert.Equal(t, docdex.RecordTypePage, base.Type)
	assert.Equal(t, "Install Guide", base.Title)
	assert.Equal(t, "https://docs.example.com/docs/go/install", base.URL)
	assert.Equal(t, "/docs/go/install", base.Path)
	assert.Equal(t, "", base.Fragment)
	assert.Equal(t, "Go SDK", base.Product)
	assert.Equal(t, "docs-go", base.IndexName)
	assert.Equal(t, "Install Guide", base.Hierarchy.Lvl0)
	assert.Equal(t, "How to install the Go SDK.", base.Description)
	assert.Equal(t, []string{"Install Guide", "Download", "Verify"}, base.Headings)
	assert.Equal(t, "2026-01-10", base.LastModified)
	assert.Equal(t, "2026-01-10", base.SourceLastmod)
	assert.Equal(t, synthNow, base.IndexedAt)
	require.NoError(t, base.Validate())

	section := records[1]
	assert.Equal(t, docdex.RecordTypeSection, section.Type)
	assert.Equal(t, "Download", section.Title)
	assert.Equal(t, "download", section.Fragment)
	assert.Equal(t, docdex.ObjectID(page.URL, "download"), section.ObjectID)
	assert.NotEmpty(t, section.Description)
	require.NoError(t, section.Validate())

	// Every record on a page gets a distinct objectID.
	ids := map[string]bool{}
	for _, rec := range records {
		assert.False(t, ids[rec.ObjectID], "duplicate objectID %s", rec.ObjectID)
		ids[rec.ObjectID] = true
	}
}

func TestSynthesize_ShortSegmentsExcluded(t *testing.T) {
	t.Parallel()

	page := &docdex.PageContent{
		URL:      "https://docs.example.com/docs/go/install",
		Title:    "Install Guide",
		MainText: "",
		Segments: []docdex.ContentSegment{
			{Heading: "Note", Level: 2, Body: "Too short to index."},
		},
	}

	records := docdex.Synthesize(page, testMatch(), "", synthNow)
	require.Len(t, records, 1)
	assert.Equal(t, docdex.RecordTypePage, records[0].Type)
}

func TestSynthesize_DetailFallback(t *testing.T) {
	t.Parallel()

	page := &docdex.PageContent{
		URL:      "https://docs.example.com/docs/go/install",
		Title:    "Install Guide",
		MainText: "The page body was recovered by the extractor and has no heading structure to segment on.",
	}

	records := docdex.Synthesize(page, testMatch(), "", synthNow)
	require.Len(t, records, 2)

	detail := records[1]
	assert.Equal(t, docdex.RecordTypeDetail, detail.Type)
	assert.Equal(t, "content", detail.Fragment)
	assert.Equal(t, page.MainText, detail.Content)
	assert.Equal(t, "Install Guide", detail.Hierarchy.Lvl0)
}

func TestSynthesize_TitleFallsBackToIndexName(t *testing.T) {
	t.Parallel()

	page := &docdex.PageContent{
		URL: "https://docs.example.com/docs/go/install",
	}

	records := docdex.Synthesize(page, testMatch(), "", synthNow)
	require.Len(t, records, 1)
	assert.Equal(t, "docs-go", records[0].Title)
	assert.Equal(t, "docs-go", records[0].Hierarchy.Lvl0)
}

func TestSynthesize_SegmentHierarchy(t *testing.T) {
	t.Parallel()

	page := &docdex.PageContent{
		URL:   "https://docs.example.com/docs/go/api",
		Title: "API Reference",
		Segments: []docdex.ContentSegment{
			{Heading: "Client", Level: 1, Body: longBody("Top level overview of the client type.")},
			{Heading: "Options", Level: 2, Body: longBody("Configuration options for the client.")},
			{Heading: "Timeouts", Level: 3, Body: longBody("Timeout behavior in detail for every call site.")},
		},
	}

	records := docdex.Synthesize(page, testMatch(), "", synthNow)
	require.Len(t, records, 4)

	deepest := records[3]
	assert.Equal(t, "Timeouts", deepest.Title)
	assert.Equal(t, docdex.Hierarchy{Lvl0: "Client", Lvl1: "Options", Lvl2: "Timeouts"}, deepest.Hierarchy)

	mid := records[2]
	assert.Equal(t, docdex.Hierarchy{Lvl0: "Client", Lvl1: "Options"}, mid.Hierarchy)

	top := records[1]
	assert.Equal(t, docdex.Hierarchy{Lvl0: "Client"}, top.Hierarchy)
}

func TestSynthesize_DuplicateFragmentsDisambiguated(t *testing.T) {
	t.Parallel()

	page := &docdex.PageContent{
		URL:   "https://docs.example.com/docs/go/api",
		Title: "API Reference",
		Segments: []docdex.ContentSegment{
			{Heading: "Example", Level: 2, Body: longBody("First example section with request code.")},
			{Heading: "Example", Level: 2, Body: longBody("Second example section with response code.")},
		},
	}

	records := docdex.Synthesize(page, testMatch(), "", synthNow)
	require.Len(t, records, 3)

	first := records[1].ObjectID
	second := records[2].ObjectID
	assert.NotEqual(t, first, second)
	assert.Equal(t, first+"_1", second)
}

func TestSynthesize_DatePrecedence(t *testing.T) {
	t.Parallel()

	t.Run("metadata date wins over hint", func(t *testing.T) {
		t.Parallel()
		page := &docdex.PageContent{
			URL:   "https://docs.example.com/docs/go/install",
			Title: "Install",
			Meta:  docdex.PageMetadata{LastModified: "2026-02-01"},
		}
		records := docdex.Synthesize(page, testMatch(), "2026-01-10", synthNow)
		assert.Equal(t, "2026-02-01", records[0].LastModified)
	})

	t.Run("future dates are clamped", func(t *testing.T) {
		t.Parallel()
		page := &docdex.PageContent{
			URL:   "https://docs.example.com/docs/go/install",
			Title: "Install",
			Meta:  docdex.PageMetadata{LastModified: "2031-06-01"},
		}
		records := docdex.Synthesize(page, testMatch(), "", synthNow)
		assert.Equal(t, "2026-03-15", records[0].LastModified)
	})

	t.Run("missing dates fall back to now", func(t *testing.T) {
		t.Parallel()
		page := &docdex.PageContent{
			URL:   "https://docs.example.com/docs/go/install",
			Title: "Install",
		}
		records := docdex.Synthesize(page, testMatch(), "", synthNow)
		assert.Equal(t, "2026-03-15", records[0].LastModified)
	})
}
