package docdex_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/docdex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() []docdex.RoutingRule {
	return []docdex.RoutingRule{
		{Product: "Platform", IndexName: "docs-platform", PathPrefix: "/docs"},
		{Product: "Go SDK", IndexName: "docs-go", PathPrefix: "/docs/go"},
		{Product: "Go SDK", IndexName: "docs-go-api", PathPrefix: "/docs/go/api"},
		{Product: "Python SDK", IndexName: "docs-py", PathPrefix: "/docs/python"},
	}
}

func TestRouter_Match(t *testing.T) {
	t.Parallel()

	t.Run("longest prefix wins", func(t *testing.T) {
		t.Parallel()
		router := docdex.NewRouter(testRules())

		match := router.Match("/docs/go/api/client")
		require.NotNil(t, match)
		assert.Equal(t, "docs-go-api", match.IndexName)
		assert.Equal(t, "/docs/go/api", match.Prefix)

		match = router.Match("/docs/go/install")
		require.NotNil(t, match)
		assert.Equal(t, "docs-go", match.IndexName)

		match = router.Match("/docs/overview")
		require.NotNil(t, match)
		assert.Equal(t, "docs-platform", match.IndexName)
	})

	t.Run("exact prefix matches", func(t *testing.T) {
		t.Parallel()
		router := docdex.NewRouter(testRules())

		match := router.Match("/docs/go")
		require.NotNil(t, match)
		assert.Equal(t, "docs-go", match.IndexName)
	})

	t.Run("segment boundaries are respected", func(t *testing.T) {
		t.Parallel()
		router := docdex.NewRouter(testRules())

		// /docs/golang is not under the /docs/go prefix.
		match := router.Match("/docs/golang/install")
		require.NotNil(t, match)
		assert.Equal(t, "docs-platform", match.IndexName)
	})

	t.Run("no rule matches", func(t *testing.T) {
		t.Parallel()
		router := docdex.NewRouter(testRules())
		assert.Nil(t, router.Match("/blog/announcement"))
	})

	t.Run("trailing slash and fragment are normalized", func(t *testing.T) {
		t.Parallel()
		router := docdex.NewRouter(testRules())

		match := router.Match("/docs/go/install/#setup")
		require.NotNil(t, match)
		assert.Equal(t, "docs-go", match.IndexName)
		assert.Equal(t, "/docs/go/install", match.Path)
		assert.Equal(t, "setup", match.Fragment)
	})

	t.Run("excluded paths are skipped", func(t *testing.T) {
		t.Parallel()
		router := docdex.NewRouter(testRules())

		assert.Nil(t, router.Match("/docs/go/internal/debug"))
		assert.Nil(t, router.Match("/docs/drafts/upcoming"))
		assert.Nil(t, router.Match("/docs/go/playground/demo"))
		assert.Nil(t, router.Match("/docs/__tests__/fixture"))
	})

	t.Run("declaration order breaks remaining ties", func(t *testing.T) {
		t.Parallel()
		router := docdex.NewRouter([]docdex.RoutingRule{
			{Product: "A", IndexName: "first", PathPrefix: "/docs/shared"},
			{Product: "B", IndexName: "second", PathPrefix: "/docs/shared"},
		})

		match := router.Match("/docs/shared/page")
		require.NotNil(t, match)
		assert.Equal(t, "first", match.IndexName)
	})
}

func TestRouter_SetAllowList(t *testing.T) {
	t.Parallel()

	router := docdex.NewRouter(testRules())

	// Prime the cache, then narrow the active set.
	match := router.Match("/docs/go/install")
	require.NotNil(t, match)
	assert.Equal(t, "docs-go", match.IndexName)

	router.SetAllowList([]string{"docs-platform"})

	match = router.Match("/docs/go/install")
	require.NotNil(t, match)
	assert.Equal(t, "docs-platform", match.IndexName)

	assert.Len(t, router.Rules(), 1)

	// Empty list restores all rules.
	router.SetAllowList(nil)
	match = router.Match("/docs/go/install")
	require.NotNil(t, match)
	assert.Equal(t, "docs-go", match.IndexName)
	assert.Len(t, router.Rules(), 4)
}

func TestRouter_SetAllowList_ConcurrentMatch(t *testing.T) {
	t.Parallel()

	// Matches that were in flight when the allow-list changed must not
	// repopulate the cleared cache with results from the old rule set.
	router := docdex.NewRouter(testRules())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				router.Match(fmt.Sprintf("/docs/go/page-%d-%d", i, j))
				router.Match("/docs/go/install")
			}
		}(i)
	}
	for i := 0; i < 50; i++ {
		router.SetAllowList([]string{"docs-platform"})
	}
	wg.Wait()

	match := router.Match("/docs/go/install")
	require.NotNil(t, match)
	assert.Equal(t, "docs-platform", match.IndexName)
}

func TestRulesFromMappings(t *testing.T) {
	t.Parallel()

	mappings := []docdex.ProductMapping{
		{
			ProductName: "Go SDK",
			ProductIndices: []docdex.ProductIndex{
				{IndexName: "docs-go", IndexPathPrefix: "/docs/go/"},
				{IndexName: "docs-go-api", IndexPathPrefix: "/docs/go/api"},
			},
		},
		{
			ProductName: "Python SDK",
			ProductIndices: []docdex.ProductIndex{
				{IndexName: "docs-py", IndexPathPrefix: "/docs/python"},
			},
		},
	}

	rules := docdex.RulesFromMappings(mappings)
	require.Len(t, rules, 3)
	assert.Equal(t, docdex.RoutingRule{Product: "Go SDK", IndexName: "docs-go", PathPrefix: "/docs/go"}, rules[0])
	assert.Equal(t, "docs-py", rules[2].IndexName)
}
