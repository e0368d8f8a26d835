package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/docdex"
)

// Ensure PageDumper implements docdex.PageDumper at compile time.
var _ docdex.PageDumper = (*PageDumper)(nil)

// PageDumper writes fetched pages as markdown files, mirroring the site's
// path structure under a base directory.
type PageDumper struct {
	baseDir   string
	converter docdex.Converter
	now       func() time.Time
}

// NewPageDumper creates a PageDumper that converts pages with converter and
// writes them under baseDir.
func NewPageDumper(baseDir string, converter docdex.Converter) *PageDumper {
	return &PageDumper{baseDir: baseDir, converter: converter, now: time.Now}
}

// DumpPage converts the page HTML to markdown and writes it to disk with
// YAML frontmatter recording its source.
func (d *PageDumper) DumpPage(ctx context.Context, url, title, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	markdown, err := d.converter.Convert(html)
	if err != nil {
		return err
	}

	relPath, err := URLToPath(url)
	if err != nil {
		return docdex.Errorf(docdex.EINVALID, "resolving dump path for %q: %v", url, err)
	}

	fullPath := filepath.Join(d.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return docdex.Errorf(docdex.EINTERNAL, "creating dump directory: %v", err)
	}

	content := formatPage(url, title, markdown, d.now())
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return docdex.Errorf(docdex.EINTERNAL, "writing page dump %q: %v", fullPath, err)
	}
	return nil
}

// formatPage formats a page with YAML frontmatter.
func formatPage(url, title, markdown string, now time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(url)
	b.WriteString("\ntitle: ")
	b.WriteString(title)
	b.WriteString("\ncrawled: ")
	b.WriteString(now.Format(docdex.DateFormat))
	b.WriteString("\n---\n\n")
	b.WriteString(markdown)
	return b.String()
}
