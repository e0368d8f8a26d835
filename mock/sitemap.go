package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var _ docdex.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of docdex.SitemapService.
type SitemapService struct {
	DiscoverEntriesFn func(ctx context.Context, baseURL string, filter *docdex.URLFilter) ([]docdex.SitemapEntry, error)
}

func (s *SitemapService) DiscoverEntries(ctx context.Context, baseURL string, filter *docdex.URLFilter) ([]docdex.SitemapEntry, error) {
	return s.DiscoverEntriesFn(ctx, baseURL, filter)
}

var _ docdex.MappingService = (*MappingService)(nil)

// MappingService is a mock implementation of docdex.MappingService.
type MappingService struct {
	FetchMappingsFn func(ctx context.Context) ([]docdex.ProductMapping, error)
}

func (s *MappingService) FetchMappings(ctx context.Context) ([]docdex.ProductMapping, error) {
	return s.FetchMappingsFn(ctx)
}
