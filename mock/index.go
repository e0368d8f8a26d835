package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var _ docdex.IndexService = (*IndexService)(nil)

// IndexService is a mock implementation of docdex.IndexService.
type IndexService struct {
	ExistsFn      func(ctx context.Context, indexName string) (bool, error)
	ConfigureFn   func(ctx context.Context, indexName string, settings docdex.IndexSettings) error
	BrowseAllFn   func(ctx context.Context, indexName string, fn func(docdex.SearchRecord) error) error
	UpsertBatchFn func(ctx context.Context, indexName string, records []docdex.SearchRecord) error
	DeleteBatchFn func(ctx context.Context, indexName string, objectIDs []string) error
}

func (s *IndexService) Exists(ctx context.Context, indexName string) (bool, error) {
	return s.ExistsFn(ctx, indexName)
}

func (s *IndexService) Configure(ctx context.Context, indexName string, settings docdex.IndexSettings) error {
	return s.ConfigureFn(ctx, indexName, settings)
}

func (s *IndexService) BrowseAll(ctx context.Context, indexName string, fn func(docdex.SearchRecord) error) error {
	return s.BrowseAllFn(ctx, indexName, fn)
}

func (s *IndexService) UpsertBatch(ctx context.Context, indexName string, records []docdex.SearchRecord) error {
	return s.UpsertBatchFn(ctx, indexName, records)
}

func (s *IndexService) DeleteBatch(ctx context.Context, indexName string, objectIDs []string) error {
	return s.DeleteBatchFn(ctx, indexName, objectIDs)
}
