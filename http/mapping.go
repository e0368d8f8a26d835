package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fwojciec/docdex"
)

// Ensure MappingService implements docdex.MappingService.
var _ docdex.MappingService = (*MappingService)(nil)

// MappingService fetches the product-to-index mapping resource: a JSON array
// of {productName, productIndices: [{indexName, indexPathPrefix}]}.
type MappingService struct {
	client *http.Client
	url    string
}

// NewMappingService creates a MappingService reading from the given URL.
// If client is nil, http.DefaultClient is used.
func NewMappingService(client *http.Client, url string) *MappingService {
	if client == nil {
		client = http.DefaultClient
	}
	return &MappingService{client: client, url: url}
}

// FetchMappings retrieves and parses the mapping resource. Any failure here
// is fatal to the run: no crawl work can be routed without it.
func (s *MappingService) FetchMappings(ctx context.Context) ([]docdex.ProductMapping, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "invalid mapping URL %q: %v", s.url, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, docdex.Errorf(docdex.EUNAVAILABLE, "fetching mapping resource: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, docdex.Errorf(docdex.EUNAVAILABLE, "HTTP %d for mapping resource %s", resp.StatusCode, s.url)
	}

	var mappings []docdex.ProductMapping
	if err := json.NewDecoder(resp.Body).Decode(&mappings); err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "parsing mapping resource: %v", err)
	}
	if len(mappings) == 0 {
		return nil, docdex.Errorf(docdex.EINVALID, "mapping resource is empty")
	}

	return mappings, nil
}
