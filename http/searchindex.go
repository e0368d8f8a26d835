package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/fwojciec/docdex"
)

// Ensure IndexService implements docdex.IndexService.
var _ docdex.IndexService = (*IndexService)(nil)

// defaultBatchSize bounds the number of operations per batch request.
const defaultBatchSize = 1000

// IndexService is a REST client for the remote search index service.
//
// Endpoints, relative to the service base URL:
//
//	GET  /indexes/{name}                    existence check
//	PUT  /indexes/{name}/settings           apply settings
//	GET  /indexes/{name}/browse?cursor=...  paginated record stream
//	POST /indexes/{name}/batch              batched upserts/deletes
type IndexService struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	batchSize int
}

// IndexOption configures an IndexService.
type IndexOption func(*IndexService)

// WithBatchSize overrides the number of operations sent per batch request.
func WithBatchSize(n int) IndexOption {
	return func(s *IndexService) {
		s.batchSize = n
	}
}

// NewIndexService creates a client for the index service at baseURL,
// authenticating with apiKey. If client is nil, http.DefaultClient is used.
func NewIndexService(client *http.Client, baseURL, apiKey string, opts ...IndexOption) *IndexService {
	if client == nil {
		client = http.DefaultClient
	}
	s := &IndexService{
		client:    client,
		baseURL:   baseURL,
		apiKey:    apiKey,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Exists reports whether the named index already exists.
func (s *IndexService) Exists(ctx context.Context, indexName string) (bool, error) {
	resp, err := s.do(ctx, http.MethodGet, s.indexPath(indexName), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, s.statusError(resp, indexName)
	}
}

// Configure applies settings to the index, creating it if needed.
func (s *IndexService) Configure(ctx context.Context, indexName string, settings docdex.IndexSettings) error {
	resp, err := s.do(ctx, http.MethodPut, s.indexPath(indexName)+"/settings", settings)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.statusError(resp, indexName)
	}
	return nil
}

// browsePage is one page of the record stream.
type browsePage struct {
	Records []docdex.SearchRecord `json:"records"`
	Cursor  string                `json:"cursor"`
}

// BrowseAll streams every existing record of the index following the
// service's cursor pagination, invoking fn for each.
func (s *IndexService) BrowseAll(ctx context.Context, indexName string, fn func(docdex.SearchRecord) error) error {
	cursor := ""
	for {
		path := s.indexPath(indexName) + "/browse"
		if cursor != "" {
			path += "?cursor=" + url.QueryEscape(cursor)
		}

		resp, err := s.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}

		var page browsePage
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return s.statusError(resp, indexName)
		}
		if err != nil {
			return docdex.Errorf(docdex.EINTERNAL, "decoding browse page for %q: %v", indexName, err)
		}

		for _, rec := range page.Records {
			if err := fn(rec); err != nil {
				return err
			}
		}

		if page.Cursor == "" {
			return nil
		}
		cursor = page.Cursor
	}
}

// batchRequest is the wire shape of one batch write.
type batchRequest struct {
	Requests []batchOperation `json:"requests"`
}

type batchOperation struct {
	Action string `json:"action"` // "upsert" or "delete"
	Body   any    `json:"body"`
}

type deleteBody struct {
	ObjectID string `json:"objectID"`
}

// UpsertBatch writes records in batched operations.
func (s *IndexService) UpsertBatch(ctx context.Context, indexName string, records []docdex.SearchRecord) error {
	ops := make([]batchOperation, len(records))
	for i, rec := range records {
		ops[i] = batchOperation{Action: "upsert", Body: rec}
	}
	return s.sendBatches(ctx, indexName, ops)
}

// DeleteBatch removes records by objectID in batched operations.
func (s *IndexService) DeleteBatch(ctx context.Context, indexName string, objectIDs []string) error {
	ops := make([]batchOperation, len(objectIDs))
	for i, id := range objectIDs {
		ops[i] = batchOperation{Action: "delete", Body: deleteBody{ObjectID: id}}
	}
	return s.sendBatches(ctx, indexName, ops)
}

// sendBatches splits operations into batchSize chunks and posts each.
func (s *IndexService) sendBatches(ctx context.Context, indexName string, ops []batchOperation) error {
	for start := 0; start < len(ops); start += s.batchSize {
		end := min(start+s.batchSize, len(ops))

		resp, err := s.do(ctx, http.MethodPost, s.indexPath(indexName)+"/batch", batchRequest{Requests: ops[start:end]})
		if err != nil {
			return err
		}
		status := resp.StatusCode
		resp.Body.Close()
		if status < 200 || status >= 300 {
			return docdex.Errorf(docdex.EUNAVAILABLE, "HTTP %d writing batch to index %q", status, indexName)
		}
	}
	return nil
}

// do issues one request with authentication; payload, if non-nil, is sent
// as JSON.
func (s *IndexService) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, docdex.Errorf(docdex.EINTERNAL, "encoding request body: %v", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "creating request: %v", err)
	}
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, docdex.Errorf(docdex.EUNAVAILABLE, "index service: %v", err)
	}
	return resp, nil
}

func (s *IndexService) indexPath(indexName string) string {
	return "/indexes/" + url.PathEscape(indexName)
}

func (s *IndexService) statusError(resp *http.Response, indexName string) error {
	if resp.StatusCode >= 500 {
		return docdex.Errorf(docdex.EUNAVAILABLE, "HTTP %d from index service for %q", resp.StatusCode, indexName)
	}
	return docdex.Errorf(docdex.EINTERNAL, "HTTP %d from index service for %q", resp.StatusCode, indexName)
}
