package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var _ docdex.Segmenter = (*Segmenter)(nil)

// Segmenter is a mock implementation of docdex.Segmenter.
type Segmenter struct {
	SegmentFn func(url, html string) (*docdex.PageContent, error)
}

func (s *Segmenter) Segment(url, html string) (*docdex.PageContent, error) {
	return s.SegmentFn(url, html)
}

var _ docdex.MainExtractor = (*MainExtractor)(nil)

// MainExtractor is a mock implementation of docdex.MainExtractor.
type MainExtractor struct {
	ExtractMainFn func(html string) (*docdex.MainContent, error)
}

func (e *MainExtractor) ExtractMain(html string) (*docdex.MainContent, error) {
	return e.ExtractMainFn(html)
}

var _ docdex.Converter = (*Converter)(nil)

// Converter is a mock implementation of docdex.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ docdex.PageDumper = (*PageDumper)(nil)

// PageDumper is a mock implementation of docdex.PageDumper.
type PageDumper struct {
	DumpPageFn func(ctx context.Context, url, title, html string) error
}

func (d *PageDumper) DumpPage(ctx context.Context, url, title, html string) error {
	return d.DumpPageFn(ctx, url, title, html)
}
