package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/docdex"
	dochttp "github.com/fwojciec/docdex/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingService_FetchMappings(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{
				"productName": "Go SDK",
				"productIndices": [
					{"indexName": "docs-go", "indexPathPrefix": "/docs/go"},
					{"indexName": "docs-go-api", "indexPathPrefix": "/docs/go/api"}
				]
			},
			{
				"productName": "Python SDK",
				"productIndices": [
					{"indexName": "docs-py", "indexPathPrefix": "/docs/python"}
				]
			}
		]`)
	}))
	defer srv.Close()

	s := dochttp.NewMappingService(srv.Client(), srv.URL)
	mappings, err := s.FetchMappings(context.Background())
	require.NoError(t, err)

	require.Len(t, mappings, 2)
	assert.Equal(t, "Go SDK", mappings[0].ProductName)
	require.Len(t, mappings[0].ProductIndices, 2)
	assert.Equal(t, "docs-go", mappings[0].ProductIndices[0].IndexName)
	assert.Equal(t, "/docs/go", mappings[0].ProductIndices[0].IndexPathPrefix)
	assert.Equal(t, "Python SDK", mappings[1].ProductName)
}

func TestMappingService_FetchMappings_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty array is EINVALID", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[]`)
		}))
		defer srv.Close()

		s := dochttp.NewMappingService(srv.Client(), srv.URL)
		_, err := s.FetchMappings(context.Background())
		require.Error(t, err)
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})

	t.Run("malformed JSON is EINVALID", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{not json`)
		}))
		defer srv.Close()

		s := dochttp.NewMappingService(srv.Client(), srv.URL)
		_, err := s.FetchMappings(context.Background())
		require.Error(t, err)
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})

	t.Run("non-200 is EUNAVAILABLE", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		s := dochttp.NewMappingService(srv.Client(), srv.URL)
		_, err := s.FetchMappings(context.Background())
		require.Error(t, err)
		assert.Equal(t, docdex.EUNAVAILABLE, docdex.ErrorCode(err))
	})
}
