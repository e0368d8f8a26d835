// Package trafilatura provides main-content extraction backed by
// go-trafilatura, used as a fallback when heading-based segmentation
// yields too little text.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/docdex"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements docdex.MainExtractor at compile time.
var _ docdex.MainExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractMain processes raw HTML and returns the main content with
// whatever metadata trafilatura recovered.
func (e *Extractor) ExtractMain(rawHTML string) (*docdex.MainContent, error) {
	if rawHTML == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINTERNAL, "extracting main content: %v", err)
	}

	main := &docdex.MainContent{
		Title:       result.Metadata.Title,
		Description: result.Metadata.Description,
		Text:        docdex.CleanText(result.ContentText),
	}
	if !result.Metadata.Date.IsZero() {
		main.Date = result.Metadata.Date.Format(docdex.DateFormat)
	}
	return main, nil
}
