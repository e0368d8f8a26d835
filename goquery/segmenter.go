// Package goquery implements HTML content segmentation and page metadata
// extraction on top of PuerkitoBio/goquery.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docdex"
	"golang.org/x/net/html"
)

// Ensure Segmenter implements docdex.Segmenter at compile time.
var _ docdex.Segmenter = (*Segmenter)(nil)

// Segmentation thresholds.
const (
	// minSegmentLen is the minimum cleaned length for a segment to qualify.
	minSegmentLen = 20
	// minBlockLen is the minimum text length for a block to contribute to a segment.
	minBlockLen = 10
	// minFallbackLen is the minimum main-content length for the fallback segment.
	minFallbackLen = 80
)

// noisePatternRe matches class and id values of known UI chrome.
var noisePatternRe = regexp.MustCompile(`(?i)(^|[\s_-])(sidebar|breadcrumbs?|toc|menu|navbar|footer|header|banner|cookie|consent|modal|dropdown|pagination|skip|search|share|social|edit-page|prev-next|announcement)([\s_-]|$)`)

// noiseElements are removed wholesale before any text extraction.
var noiseElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"iframe": true, "form": true, "nav": true, "header": true,
	"footer": true, "aside": true, "button": true, "svg": true,
	"select": true, "input": true, "label": true, "dialog": true,
}

// blockElements contribute their full subtree text as one unit.
var blockElements = map[string]bool{
	"p": true, "li": true, "dd": true, "dt": true, "td": true, "th": true,
	"blockquote": true, "pre": true, "figcaption": true,
}

// Segmenter parses a fetched document into page metadata plus an ordered
// list of heading-anchored content segments, filtering navigation/UI noise
// and near-duplicate text.
type Segmenter struct{}

// NewSegmenter creates a new Segmenter.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment extracts structure from one document's raw HTML.
func (s *Segmenter) Segment(url, rawHTML string) (*docdex.PageContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "failed to parse HTML: %v", err)
	}

	meta := extractMetadata(doc)

	w := &walker{usedHeadings: make(map[string]bool)}
	if body := doc.Find("body").Nodes; len(body) > 0 {
		w.walk(body[0])
	}
	w.closeSegment()

	mainText := docdex.CleanText(strings.Join(w.mainText, " "))

	page := &docdex.PageContent{
		URL:         url,
		Title:       resolveTitle(meta, w.headings),
		Description: resolveDescription(meta),
		MainText:    mainText,
		Headings:    w.headings,
		Segments:    w.segments,
		Meta:        meta,
		Structure: docdex.Structure{
			CodeBlocks: w.codeBlocks,
			Tables:     w.tables,
		},
	}

	// A page with no heading structure still deserves one segment when its
	// main content is non-trivial.
	if len(page.Segments) == 0 && len(mainText) >= minFallbackLen {
		heading := page.Title
		if heading == "" && len(w.headings) > 0 {
			heading = w.headings[0]
		}
		page.Segments = []docdex.ContentSegment{{
			Heading: heading,
			Level:   1,
			Body:    mainText,
		}}
	}

	return page, nil
}

// walker accumulates segments during a document-order traversal.
type walker struct {
	segments     []docdex.ContentSegment
	headings     []string
	usedHeadings map[string]bool
	mainText     []string

	open    bool
	heading string
	level   int
	buf     []string

	codeBlocks bool
	tables     bool
}

// walk visits nodes in document order, skipping noise subtrees, opening a
// segment at each accepted heading and collecting block text into the open
// segment.
func (w *walker) walk(n *html.Node) {
	if n.Type != html.ElementNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c)
		}
		return
	}

	if isNoiseElement(n) {
		return
	}

	switch n.Data {
	case "pre", "code":
		w.codeBlocks = true
	case "table":
		w.tables = true
	}

	if level, ok := headingLevel(n.Data); ok {
		w.onHeading(n, level)
		return
	}

	if blockElements[n.Data] {
		w.onBlock(n)
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// onHeading closes the current segment and opens a new one, unless the
// heading duplicates an already-used one or matches a non-content pattern,
// in which case the node is treated as ordinary content.
func (w *walker) onHeading(n *html.Node, level int) {
	heading := docdex.NormalizeHeading(nodeText(n))
	if heading == "" {
		return
	}

	key := strings.ToLower(heading)
	if w.usedHeadings[key] || docdex.IsBoilerplateHeading(heading) {
		w.appendBlockText(nodeText(n))
		return
	}

	w.closeSegment()
	w.usedHeadings[key] = true
	w.headings = append(w.headings, heading)
	w.open = true
	w.heading = heading
	w.level = level
	w.buf = nil
}

// onBlock extracts a block element's subtree text, excluding nested noise.
func (w *walker) onBlock(n *html.Node) {
	w.appendBlockText(nodeText(n))
}

func (w *walker) appendBlockText(text string) {
	text = strings.TrimSpace(text)
	if len(text) < minBlockLen {
		return
	}
	w.mainText = append(w.mainText, text)
	if w.open {
		w.buf = append(w.buf, text)
	}
}

// closeSegment cleans the open segment's accumulated text and keeps it if it
// meets the minimum length.
func (w *walker) closeSegment() {
	if !w.open {
		return
	}
	w.open = false

	body := docdex.CleanText(strings.Join(w.buf, " "))
	w.buf = nil
	if len(body) < minSegmentLen {
		return
	}

	w.segments = append(w.segments, docdex.ContentSegment{
		Heading: w.heading,
		Level:   w.level,
		Body:    body,
	})
}

// isNoiseElement classifies structural noise: chrome elements, hidden nodes
// and known UI class/id patterns.
func isNoiseElement(n *html.Node) bool {
	if noiseElements[n.Data] {
		return true
	}
	for _, attr := range n.Attr {
		switch attr.Key {
		case "hidden":
			return true
		case "aria-hidden":
			if attr.Val == "true" {
				return true
			}
		case "role":
			if attr.Val == "navigation" || attr.Val == "banner" || attr.Val == "contentinfo" {
				return true
			}
		case "class", "id":
			if noisePatternRe.MatchString(attr.Val) {
				return true
			}
		}
	}
	return false
}

// nodeText extracts the text of a subtree, excluding nested noise elements.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteByte(' ')
			return
		}
		if node.Type == html.ElementNode && isNoiseElement(node) {
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visit(c)
	}
	return strings.TrimSpace(sb.String())
}

func headingLevel(tag string) (int, bool) {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0'), true
	}
	return 0, false
}
