package docdex

import "context"

// ContentSegment is a contiguous span of page content anchored under one
// heading, after noise removal and near-duplicate pruning. Segments are kept
// in document order.
type ContentSegment struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"` // 1-6
	Body    string `json:"body"`
}

// PageMetadata holds the recognized metadata of a page as explicit fields,
// plus an overflow map for unrecognized extension keys.
type PageMetadata struct {
	Title         string            `json:"title,omitempty"`
	Description   string            `json:"description,omitempty"`
	OGTitle       string            `json:"ogTitle,omitempty"`
	OGDescription string            `json:"ogDescription,omitempty"`
	LastModified  string            `json:"lastModified,omitempty"`
	Type          string            `json:"type,omitempty"`
	Topics        []string          `json:"topics,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// PageContent is the parsed representation of one fetched document. It is
// transient: consumed by record synthesis and never persisted.
type PageContent struct {
	URL         string
	Title       string
	Description string
	MainText    string
	Headings    []string
	Segments    []ContentSegment
	Meta        PageMetadata
	Structure   Structure
}

// Segmenter parses one fetched document into page metadata plus an ordered
// sequence of content segments suitable for independent indexing.
type Segmenter interface {
	// Segment extracts structure from raw HTML. A page that yields no
	// qualifying segments is not an error; callers inspect Segments and
	// MainText to decide on fallback behavior.
	Segment(url, html string) (*PageContent, error)
}

// MainContent is the boilerplate-free core of a page as recovered by a
// content extractor, used when heading segmentation produces nothing.
type MainContent struct {
	Title       string
	Description string
	Text        string
	Date        string
}

// MainExtractor recovers the main content of an HTML page, removing
// navigation, sidebars and other boilerplate.
type MainExtractor interface {
	ExtractMain(html string) (*MainContent, error)
}

// Converter converts HTML to Markdown. Used by the page-dump observation
// sink; the indexing pipeline itself works on extracted text.
type Converter interface {
	Convert(html string) (string, error)
}

// PageDumper persists a local copy of a fetched page. Dumping is an
// observation sink; its failures must not affect the indexing pipeline.
type PageDumper interface {
	DumpPage(ctx context.Context, url, title, html string) error
}
