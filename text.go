package docdex

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	residualTagRe = regexp.MustCompile(`<[^>]{1,80}>`)
	enumerationRe = regexp.MustCompile(`^\d+(\.\d+)*\.?\s+`)
)

// boilerplateHeadings are heading texts that never anchor useful content.
// Matching is case-insensitive on the normalized heading.
var boilerplateHeadings = map[string]bool{
	"related":           true,
	"related articles":  true,
	"related topics":    true,
	"quick links":       true,
	"on this page":      true,
	"in this article":   true,
	"table of contents": true,
	"see also":          true,
	"navigation":        true,
	"feedback":          true,
	"was this helpful?": true,
}

// CleanText normalizes extracted text: entities are decoded, residual markup
// stripped, whitespace collapsed, and near-duplicate sentences pruned.
func CleanText(s string) string {
	s = html.UnescapeString(s)
	s = residualTagRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return PruneDuplicateSentences(s)
}

// PruneDuplicateSentences drops sentences that near-duplicate an earlier one.
// Two sentences are considered duplicates when one is a prefix or substring
// of the other, or when their Levenshtein distance is under 20% of their
// combined length.
func PruneDuplicateSentences(s string) string {
	sentences := splitSentences(s)
	if len(sentences) < 2 {
		return s
	}

	kept := sentences[:0:0]
	for _, candidate := range sentences {
		dup := false
		for _, existing := range kept {
			if SimilarSentences(existing, candidate) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, candidate)
		}
	}
	return strings.Join(kept, " ")
}

// SimilarSentences reports whether two sentences are near-duplicates.
func SimilarSentences(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return true
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return true
	}
	combined := len(la) + len(lb)
	if combined == 0 {
		return true
	}
	return levenshtein.ComputeDistance(la, lb)*5 < combined
}

// splitSentences breaks text on sentence-ending punctuation followed by
// whitespace, keeping the terminator with the sentence.
func splitSentences(s string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '.' && s[i] != '!' && s[i] != '?' {
			continue
		}
		if i+1 < len(s) && s[i+1] != ' ' && s[i+1] != '\n' && s[i+1] != '\t' {
			continue
		}
		if part := strings.TrimSpace(s[start : i+1]); part != "" {
			sentences = append(sentences, part)
		}
		start = i + 1
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		sentences = append(sentences, part)
	}
	return sentences
}

// NormalizeHeading trims a heading and drops leading enumeration such as
// "1.2 Configuration" -> "Configuration".
func NormalizeHeading(s string) string {
	s = whitespaceRe.ReplaceAllString(html.UnescapeString(s), " ")
	s = strings.TrimSpace(s)
	return enumerationRe.ReplaceAllString(s, "")
}

// IsBoilerplateHeading reports whether a normalized heading matches a known
// non-content heading pattern.
func IsBoilerplateHeading(s string) bool {
	return boilerplateHeadings[strings.ToLower(strings.TrimSpace(s))]
}

// Anchor creates a URL-safe fragment identifier from a heading.
// Converts to lowercase, replaces spaces with hyphens, removes special chars.
func Anchor(heading string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(heading) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}

// Description derivation window.
const (
	descWindowMin = 120
	descWindowMax = 160
	descTarget    = 157
)

// DeriveDescription produces a short description from content by finding a
// sentence boundary within a 120-160 character window, falling back to the
// nearest word boundary near 157 characters with a truncation marker.
func DeriveDescription(content string) string {
	content = strings.TrimSpace(whitespaceRe.ReplaceAllString(content, " "))
	if len(content) <= descWindowMax {
		return content
	}

	// Prefer a sentence boundary inside the window.
	window := content[:descWindowMax]
	for i := len(window) - 1; i >= descWindowMin; i-- {
		if window[i] == '.' || window[i] == '!' || window[i] == '?' {
			return strings.TrimSpace(window[:i+1])
		}
	}

	// Fall back to the nearest word boundary near the target length,
	// backing off to a rune start so the cut never splits a multibyte
	// character.
	cut := descTarget
	if i := strings.LastIndexByte(content[:cut], ' '); i > 0 {
		cut = i
	}
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return strings.TrimSpace(content[:cut]) + "…"
}
