// Package fs provides file-based output: record batch exports and local
// markdown copies of fetched pages.
package fs

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docdex"
)

// URLToPath converts a documentation URL to a relative file path.
// Example: https://example.com/docs/api/users → docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	path := u.Path

	// Root or trailing slash → index.md
	if path == "" || path == "/" {
		return "index.md", nil
	}

	path = strings.TrimPrefix(path, "/")

	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}

	return path + ".md", nil
}

// Exporter writes record batches as JSON files, one per index.
type Exporter struct {
	baseDir string
}

// NewExporter creates an Exporter that writes to the given directory.
func NewExporter(baseDir string) *Exporter {
	return &Exporter{baseDir: baseDir}
}

// WriteBatch writes one record batch to <baseDir>/<indexName>.json.
func (e *Exporter) WriteBatch(batch docdex.RecordBatch) (string, error) {
	export := docdex.IndexExport{
		Product:  batch.Product,
		Settings: batch.Settings,
		Records:  batch.Records,
	}

	buf, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", docdex.Errorf(docdex.EINTERNAL, "encoding export for %q: %v", batch.IndexName, err)
	}

	if err := os.MkdirAll(e.baseDir, 0755); err != nil {
		return "", docdex.Errorf(docdex.EINTERNAL, "creating export directory: %v", err)
	}

	path := filepath.Join(e.baseDir, batch.IndexName+".json")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return "", docdex.Errorf(docdex.EINTERNAL, "writing export %q: %v", path, err)
	}
	return path, nil
}

// WriteAll writes every batch and returns the created file paths.
func (e *Exporter) WriteAll(batches []docdex.RecordBatch) ([]string, error) {
	paths := make([]string, 0, len(batches))
	for _, batch := range batches {
		path, err := e.WriteBatch(batch)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
