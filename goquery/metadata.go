package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docdex"
)

// knownMeta are tag names handled as explicit PageMetadata fields, and
// ignoredMeta are presentation tags that never carry content metadata.
// Anything else lands in the overflow map.
var (
	knownMeta = map[string]bool{
		"description":           true,
		"og:title":              true,
		"og:description":        true,
		"og:type":               true,
		"article:modified_time": true,
		"last-modified":         true,
		"lastmod":               true,
		"date":                  true,
		"keywords":              true,
	}
	ignoredMeta = map[string]bool{
		"viewport": true, "robots": true, "generator": true,
		"theme-color": true, "charset": true, "referrer": true,
		"color-scheme": true, "og:image": true, "og:url": true,
		"twitter:card": true, "twitter:image": true,
	}
)

// extractMetadata reads page-level metadata independently of segmentation:
// <title>, known meta-tag names and an overflow map for the rest.
func extractMetadata(doc *goquery.Document) docdex.PageMetadata {
	meta := docdex.PageMetadata{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok {
			name, ok = sel.Attr("property")
		}
		if !ok {
			return
		}
		name = strings.ToLower(strings.TrimSpace(name))
		content := strings.TrimSpace(sel.AttrOr("content", ""))
		if name == "" || content == "" {
			return
		}

		switch name {
		case "description":
			meta.Description = content
		case "og:title":
			meta.OGTitle = content
		case "og:description":
			meta.OGDescription = content
		case "og:type":
			meta.Type = content
		case "article:modified_time", "last-modified", "lastmod", "date":
			if meta.LastModified == "" {
				meta.LastModified = content
			}
		case "keywords":
			meta.Topics = splitTopics(content)
		default:
			if knownMeta[name] || ignoredMeta[name] {
				return
			}
			if meta.Extra == nil {
				meta.Extra = make(map[string]string)
			}
			meta.Extra[name] = content
		}
	})

	return meta
}

// resolveTitle applies the documented fallback order: explicit title, first
// heading, social-preview title. The final index-name fallback belongs to
// record synthesis, which knows the destination.
func resolveTitle(meta docdex.PageMetadata, headings []string) string {
	if meta.Title != "" {
		return meta.Title
	}
	if len(headings) > 0 {
		return headings[0]
	}
	return meta.OGTitle
}

// resolveDescription prefers explicit description metadata over the
// social-preview description. Content-derived fallback happens at synthesis.
func resolveDescription(meta docdex.PageMetadata) string {
	if meta.Description != "" {
		return meta.Description
	}
	return meta.OGDescription
}

func splitTopics(s string) []string {
	var topics []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			topics = append(topics, part)
		}
	}
	return topics
}
