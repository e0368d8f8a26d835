package docdex

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// RoutingRule assigns a URL path prefix to a destination index and its
// owning product. Rules are immutable for the process lifetime unless
// explicitly narrowed to an active subset.
type RoutingRule struct {
	Product    string
	IndexName  string
	PathPrefix string
}

// IndexMatch is the resolved routing decision for one path.
type IndexMatch struct {
	IndexName string
	Product   string
	Prefix    string
	Path      string
	Fragment  string
}

// DefaultExclusions rejects paths that belong to internal, draft, tooling or
// test content. Matching paths are skipped, not errors.
var DefaultExclusions = []*regexp.Regexp{
	regexp.MustCompile(`(^|/)_?internal(/|$)`),
	regexp.MustCompile(`(^|/)drafts?(/|$)`),
	regexp.MustCompile(`(^|/)playground(/|$)`),
	regexp.MustCompile(`(^|/)__?tests?__?(/|$)`),
	regexp.MustCompile(`(^|/)tooling(/|$)`),
}

// Router decides which destination index, if any, owns a given URL path,
// using longest-prefix matching over the configured rules.
//
// Match results are cached per distinct input path; the cache is invalidated
// when the active allow-list changes. The Router is safe for concurrent use.
type Router struct {
	rules      []RoutingRule
	exclusions []*regexp.Regexp

	mu     sync.RWMutex
	active map[string]bool // nil means all rules active
	cache  map[string]*IndexMatch
	gen    uint64 // bumped when the cache is cleared
}

// NewRouter creates a Router over the given rules with DefaultExclusions.
func NewRouter(rules []RoutingRule) *Router {
	return &Router{
		rules:      rules,
		exclusions: DefaultExclusions,
		cache:      make(map[string]*IndexMatch),
	}
}

// SetAllowList narrows the router to the named indexes. An empty list
// restores all rules. The match cache is cleared.
func (r *Router) SetAllowList(indexNames []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(indexNames) == 0 {
		r.active = nil
	} else {
		r.active = make(map[string]bool, len(indexNames))
		for _, name := range indexNames {
			r.active[name] = true
		}
	}
	r.cache = make(map[string]*IndexMatch)
	r.gen++
}

// Rules returns the currently active rules in declaration order.
func (r *Router) Rules() []RoutingRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == nil {
		return r.rules
	}
	var active []RoutingRule
	for _, rule := range r.rules {
		if r.active[rule.IndexName] {
			active = append(active, rule)
		}
	}
	return active
}

// Match resolves the destination index for a URL path. It returns nil both
// when the path is excluded and when no rule matches; callers treat either
// as "skip", not as an error.
func (r *Router) Match(path string) *IndexMatch {
	fragment := ""
	if i := strings.IndexByte(path, '#'); i >= 0 {
		fragment = path[i+1:]
	}
	normalized := NormalizePath(path)

	r.mu.RLock()
	cached, ok := r.cache[normalized]
	gen := r.gen
	r.mu.RUnlock()
	if ok {
		return withFragment(cached, normalized, fragment)
	}

	match := r.resolve(normalized)

	// Only cache results computed against the current allow-list. A result
	// resolved before a concurrent SetAllowList cleared the cache is stale
	// and must not repopulate it.
	r.mu.Lock()
	if r.gen == gen {
		r.cache[normalized] = match
	}
	r.mu.Unlock()

	return withFragment(match, normalized, fragment)
}

// resolve performs the uncached longest-prefix match.
func (r *Router) resolve(path string) *IndexMatch {
	for _, re := range r.exclusions {
		if re.MatchString(path) {
			return nil
		}
	}

	r.mu.RLock()
	active := r.active
	r.mu.RUnlock()

	var candidates []RoutingRule
	for _, rule := range r.rules {
		if active != nil && !active[rule.IndexName] {
			continue
		}
		if prefixMatches(path, rule.PathPrefix) {
			candidates = append(candidates, rule)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Most specific prefix wins. Equal specificity breaks by lexicographic
	// prefix order; declaration order is preserved as the final tie-break
	// by the stable sort.
	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := segmentCount(candidates[i].PathPrefix), segmentCount(candidates[j].PathPrefix)
		if si != sj {
			return si > sj
		}
		return candidates[i].PathPrefix < candidates[j].PathPrefix
	})

	best := candidates[0]
	return &IndexMatch{
		IndexName: best.IndexName,
		Product:   best.Product,
		Prefix:    best.PathPrefix,
	}
}

// withFragment copies a cached match, attaching the per-call path and
// fragment. Cached entries are shared and must not be mutated.
func withFragment(m *IndexMatch, path, fragment string) *IndexMatch {
	if m == nil {
		return nil
	}
	out := *m
	out.Path = path
	out.Fragment = fragment
	return &out
}

// prefixMatches reports whether prefix equals path or is a path-segment
// prefix of it.
func prefixMatches(path, prefix string) bool {
	if prefix == "" {
		return true
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

// segmentCount counts non-empty path segments.
func segmentCount(path string) int {
	n := 0
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			n++
		}
	}
	return n
}
