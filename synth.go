package docdex

import (
	"fmt"
	"strings"
	"time"
)

// Segment records require this much cleaned content; shorter segments are
// represented only through the page's base record.
const minSegmentRecordLen = 80

// Synthesize turns one page's content plus its routing decision into one or
// more immutable search records with deterministic identifiers.
//
// It always emits a base record for the whole page. Each qualifying segment
// yields a section record; when segmentation produced nothing but main
// content exists, a single detail record carries that content instead.
// The lastmodHint is the source-provided last-modification hint (sitemap
// <lastmod>), used when the page metadata carries no date of its own.
func Synthesize(page *PageContent, match *IndexMatch, lastmodHint string, now time.Time) []SearchRecord {
	title := page.Title
	if title == "" {
		title = match.IndexName
	}

	lastModified := resolveLastModified(page.Meta.LastModified, lastmodHint, now)
	description := page.Description
	if description == "" {
		description = deriveFallbackDescription(page)
	}

	used := make(map[string]int)
	structure := page.Structure

	base := SearchRecord{
		ObjectID:      claimObjectID(used, page.URL, ""),
		URL:           NormalizeURL(page.URL),
		Path:          pathOf(match),
		Title:         title,
		Content:       description,
		Product:       match.Product,
		IndexName:     match.IndexName,
		Hierarchy:     Hierarchy{Lvl0: orDefault(title)},
		Type:          RecordTypePage,
		Topics:        page.Meta.Topics,
		LastModified:  lastModified,
		SourceLastmod: lastmodHint,
		IndexedAt:     now,
		Metadata:      page.Meta.Extra,
		Headings:      page.Headings,
		Description:   description,
		Structure:     &structure,
	}
	records := []SearchRecord{base}

	emitted := 0
	for i, seg := range page.Segments {
		if len(seg.Body) < minSegmentRecordLen {
			continue
		}
		fragment := Anchor(seg.Heading)
		records = append(records, SearchRecord{
			ObjectID:      claimObjectID(used, page.URL, fragment),
			URL:           NormalizeURL(page.URL),
			Path:          pathOf(match),
			Fragment:      fragment,
			Title:         seg.Heading,
			Content:       seg.Body,
			Product:       match.Product,
			IndexName:     match.IndexName,
			Hierarchy:     segmentHierarchy(page.Segments, i, title),
			Type:          RecordTypeSection,
			Topics:        page.Meta.Topics,
			LastModified:  lastModified,
			SourceLastmod: lastmodHint,
			IndexedAt:     now,
			Description:   DeriveDescription(seg.Body),
		})
		emitted++
	}

	// No qualifying segments: fall back to one detail record carrying the
	// page's main content, so the page remains findable by body text.
	if emitted == 0 && strings.TrimSpace(page.MainText) != "" {
		records = append(records, SearchRecord{
			ObjectID:      claimObjectID(used, page.URL, "content"),
			URL:           NormalizeURL(page.URL),
			Path:          pathOf(match),
			Fragment:      "content",
			Title:         title,
			Content:       page.MainText,
			Product:       match.Product,
			IndexName:     match.IndexName,
			Hierarchy:     Hierarchy{Lvl0: orDefault(title)},
			Type:          RecordTypeDetail,
			Topics:        page.Meta.Topics,
			LastModified:  lastModified,
			SourceLastmod: lastmodHint,
			IndexedAt:     now,
			Description:   DeriveDescription(page.MainText),
		})
	}

	return records
}

// claimObjectID computes the deterministic identifier for (url, fragment)
// and disambiguates collisions within the page with an incrementing numeric
// suffix: the first collision gets "_1", the next "_2", and so on.
func claimObjectID(used map[string]int, url, fragment string) string {
	id := ObjectID(url, fragment)
	n, collided := used[id]
	used[id] = n + 1
	if !collided {
		return id
	}
	return fmt.Sprintf("%s_%d", id, n)
}

// segmentHierarchy derives lvl0/lvl1/lvl2 from the nearest preceding
// headings of strictly lower level than segment i, deepest three kept.
func segmentHierarchy(segments []ContentSegment, i int, pageTitle string) Hierarchy {
	chain := []string{segments[i].Heading}
	level := segments[i].Level
	for j := i - 1; j >= 0 && len(chain) < 3; j-- {
		if segments[j].Level < level {
			chain = append([]string{segments[j].Heading}, chain...)
			level = segments[j].Level
		}
	}

	h := Hierarchy{Lvl0: chain[0]}
	if len(chain) > 1 {
		h.Lvl1 = chain[1]
	}
	if len(chain) > 2 {
		h.Lvl2 = chain[2]
	}
	if h.Lvl0 == "" {
		h.Lvl0 = orDefault(pageTitle)
	}
	return h
}

// resolveLastModified applies the date precedence rule: page metadata, then
// the source hint, then the current time, normalized to calendar-date
// granularity with future dates clamped to today.
func resolveLastModified(metaDate, hint string, now time.Time) string {
	if t, ok := ParseDate(metaDate); ok {
		return NormalizeDate(t, now)
	}
	if t, ok := ParseDate(hint); ok {
		return NormalizeDate(t, now)
	}
	return NormalizeDate(now, now)
}

// deriveFallbackDescription prefers social-preview metadata, then derives
// one from the page's main content or first segment.
func deriveFallbackDescription(page *PageContent) string {
	if page.Meta.OGDescription != "" {
		return page.Meta.OGDescription
	}
	if strings.TrimSpace(page.MainText) != "" {
		return DeriveDescription(page.MainText)
	}
	if len(page.Segments) > 0 {
		return DeriveDescription(page.Segments[0].Body)
	}
	return ""
}

func pathOf(match *IndexMatch) string {
	return match.Path
}

func orDefault(title string) string {
	if title == "" {
		return DefaultHierarchyRoot
	}
	return title
}
