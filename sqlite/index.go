package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/fwojciec/docdex"
)

// Compile-time interface verification.
var _ docdex.IndexService = (*IndexService)(nil)

// IndexService implements docdex.IndexService using SQLite.
type IndexService struct {
	db *DB
}

// NewIndexService creates a new IndexService.
func NewIndexService(db *DB) *IndexService {
	return &IndexService{db: db}
}

// Exists reports whether the named index exists.
func (s *IndexService) Exists(ctx context.Context, indexName string) (bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `
		SELECT name FROM indexes WHERE name = ?
	`, indexName).Scan(&name)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, docdex.Errorf(docdex.EINTERNAL, "checking index %q: %v", indexName, err)
	}
	return true, nil
}

// Configure creates the index if needed and stores its settings.
func (s *IndexService) Configure(ctx context.Context, indexName string, settings docdex.IndexSettings) error {
	buf, err := json.Marshal(settings)
	if err != nil {
		return docdex.Errorf(docdex.EINTERNAL, "encoding settings for %q: %v", indexName, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO indexes (name, settings) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET settings = excluded.settings
	`, indexName, string(buf))
	if err != nil {
		return docdex.Errorf(docdex.EINTERNAL, "configuring index %q: %v", indexName, err)
	}
	return nil
}

// BrowseAll invokes fn for every record stored in the index.
func (s *IndexService) BrowseAll(ctx context.Context, indexName string, fn func(docdex.SearchRecord) error) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM records WHERE index_name = ? ORDER BY object_id
	`, indexName)
	if err != nil {
		return docdex.Errorf(docdex.EINTERNAL, "browsing index %q: %v", indexName, err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return docdex.Errorf(docdex.EINTERNAL, "scanning record: %v", err)
		}
		var rec docdex.SearchRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return docdex.Errorf(docdex.EINTERNAL, "decoding record: %v", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

// UpsertBatch inserts or replaces records in the index.
func (s *IndexService) UpsertBatch(ctx context.Context, indexName string, records []docdex.SearchRecord) error {
	if err := s.ensureIndex(ctx, indexName); err != nil {
		return err
	}

	for _, rec := range records {
		buf, err := json.Marshal(rec)
		if err != nil {
			return docdex.Errorf(docdex.EINTERNAL, "encoding record %q: %v", rec.ObjectID, err)
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO records (index_name, object_id, payload) VALUES (?, ?, ?)
			ON CONFLICT(index_name, object_id) DO UPDATE SET payload = excluded.payload
		`, indexName, rec.ObjectID, string(buf))
		if err != nil {
			return docdex.Errorf(docdex.EINTERNAL, "upserting record %q: %v", rec.ObjectID, err)
		}
	}
	return nil
}

// DeleteBatch removes records by objectID. Missing objectIDs are ignored.
func (s *IndexService) DeleteBatch(ctx context.Context, indexName string, objectIDs []string) error {
	for _, id := range objectIDs {
		_, err := s.db.ExecContext(ctx, `
			DELETE FROM records WHERE index_name = ? AND object_id = ?
		`, indexName, id)
		if err != nil {
			return docdex.Errorf(docdex.EINTERNAL, "deleting record %q: %v", id, err)
		}
	}
	return nil
}

// ensureIndex creates the index row if it does not exist, so records can
// be written without a prior Configure call.
func (s *IndexService) ensureIndex(ctx context.Context, indexName string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO indexes (name) VALUES (?) ON CONFLICT(name) DO NOTHING
	`, indexName)
	if err != nil {
		return docdex.Errorf(docdex.EINTERNAL, "creating index %q: %v", indexName, err)
	}
	return nil
}
