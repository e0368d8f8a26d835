package docdex

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Record types distinguish what a SearchRecord represents.
const (
	RecordTypePage    = "page"    // whole-page base record
	RecordTypeSection = "section" // one heading-anchored segment
	RecordTypeDetail  = "detail"  // fallback record from main content
)

// DateFormat is the calendar-date granularity used for record timestamps.
const DateFormat = "2006-01-02"

// DefaultHierarchyRoot is used as hierarchy.lvl0 when a page provides no
// heading context at all.
const DefaultHierarchyRoot = "Documentation"

// Hierarchy carries breadcrumb-style heading ancestry for a record.
// Lvl0 is always set; deeper levels are omitted when no ancestor exists.
type Hierarchy struct {
	Lvl0 string `json:"lvl0"`
	Lvl1 string `json:"lvl1,omitempty"`
	Lvl2 string `json:"lvl2,omitempty"`
}

// Structure summarizes notable markup found on a page.
type Structure struct {
	CodeBlocks bool `json:"codeBlocks,omitempty"`
	Tables     bool `json:"tables,omitempty"`
}

// SearchRecord is one retrievable unit sent to a search index, representing
// either a whole page or one content segment of it.
type SearchRecord struct {
	ObjectID      string            `json:"objectID"`
	URL           string            `json:"url"`
	Path          string            `json:"path"`
	Fragment      string            `json:"fragment,omitempty"`
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	Product       string            `json:"product"`
	IndexName     string            `json:"indexName"`
	Hierarchy     Hierarchy         `json:"hierarchy"`
	Type          string            `json:"type"`
	Topics        []string          `json:"topics,omitempty"`
	LastModified  string            `json:"lastModified"`
	SourceLastmod string            `json:"sourceLastmod,omitempty"`
	IndexedAt     time.Time         `json:"indexedAt"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Headings      []string          `json:"headings,omitempty"`
	Description   string            `json:"description,omitempty"`
	Structure     *Structure        `json:"structure,omitempty"`
}

// Validate returns an error if the record violates its invariants.
func (r *SearchRecord) Validate() error {
	if r.ObjectID == "" {
		return Errorf(EINVALID, "record object ID required")
	}
	if r.IndexName == "" {
		return Errorf(EINVALID, "record index name required")
	}
	if r.Hierarchy.Lvl0 == "" {
		return Errorf(EINVALID, "record hierarchy lvl0 required")
	}
	return nil
}

// NormalizeURL canonicalizes a URL for identity purposes: the fragment is
// stripped, the trailing slash removed, and the scheme and host lowercased.
// NormalizeURL is idempotent.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.TrimSuffix(strings.TrimSpace(raw), "/")
	}
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// NormalizePath canonicalizes a URL path for routing: any fragment is
// stripped and the trailing slash removed. The root path normalizes to "".
func NormalizePath(path string) string {
	if i := strings.IndexByte(path, '#'); i >= 0 {
		path = path[:i]
	}
	return strings.TrimSuffix(path, "/")
}

// ObjectID derives the stable identifier for a record from its normalized
// URL and fragment. Identical inputs always produce identical IDs; changing
// only the fragment changes the ID. Collision disambiguation (multiple
// segments normalizing to the same fragment) is the synthesizer's concern.
func ObjectID(rawURL, fragment string) string {
	h := xxhash.Sum64String(NormalizeURL(rawURL) + "#" + fragment)
	return fmt.Sprintf("%016x", h)
}

// NormalizeDate reduces a timestamp to calendar-date granularity, clamping
// values after now to the current date.
func NormalizeDate(t, now time.Time) string {
	if t.After(now) {
		t = now
	}
	return t.UTC().Format(DateFormat)
}

// ParseDate parses a calendar date or RFC 3339 timestamp. It returns a zero
// time and false when the value is empty or unparseable.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{DateFormat, time.RFC3339, "2006-01-02T15:04:05Z0700"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
