package docdex

import "context"

// ProductIndex is one destination index owned by a product, as declared in
// the mapping resource.
type ProductIndex struct {
	IndexName       string `json:"indexName"`
	IndexPathPrefix string `json:"indexPathPrefix"`
}

// ProductMapping is one entry of the mapping resource: a product and the
// indexes it owns.
type ProductMapping struct {
	ProductName    string         `json:"productName"`
	ProductIndices []ProductIndex `json:"productIndices"`
}

// MappingService fetches the mapping resource that declares which index owns
// which URL path prefix. It is loaded once at startup; fetch or parse failure
// is fatal before any crawl work begins.
type MappingService interface {
	FetchMappings(ctx context.Context) ([]ProductMapping, error)
}

// RulesFromMappings flattens product mappings into routing rules, preserving
// declaration order.
func RulesFromMappings(mappings []ProductMapping) []RoutingRule {
	var rules []RoutingRule
	for _, m := range mappings {
		for _, idx := range m.ProductIndices {
			rules = append(rules, RoutingRule{
				Product:    m.ProductName,
				IndexName:  idx.IndexName,
				PathPrefix: NormalizePath(idx.IndexPathPrefix),
			})
		}
	}
	return rules
}
