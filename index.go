package docdex

import "context"

// IndexSettings is the opaque configuration payload (searchable attributes,
// facets, ranking, typo tolerance) passed through to the index service
// unchanged.
type IndexSettings map[string]any

// RecordBatch groups the records synthesized for one destination index
// during a crawl, with the settings to apply to it.
type RecordBatch struct {
	IndexName string
	Product   string
	Settings  IndexSettings
	Records   []SearchRecord
}

// IndexExport is the observation-mode value exposed per index instead of
// mutating the remote service.
type IndexExport struct {
	Product  string         `json:"product"`
	Settings IndexSettings  `json:"settings,omitempty"`
	Records  []SearchRecord `json:"records"`
}

// IndexService is the remote search index, treated abstractly.
type IndexService interface {
	// Exists reports whether the named index already exists.
	Exists(ctx context.Context, indexName string) (bool, error)

	// Configure applies settings to the index, creating it if needed.
	// The settings payload is passed through unchanged.
	Configure(ctx context.Context, indexName string, settings IndexSettings) error

	// BrowseAll streams every existing record of the index in pages,
	// invoking fn for each. A non-nil error from fn stops the stream.
	BrowseAll(ctx context.Context, indexName string, fn func(SearchRecord) error) error

	// UpsertBatch writes records as one batched operation.
	UpsertBatch(ctx context.Context, indexName string, records []SearchRecord) error

	// DeleteBatch removes records by objectID as one batched operation.
	DeleteBatch(ctx context.Context, indexName string, objectIDs []string) error
}
