package values

import (
	"sort"
	"strings"
)

// ProductFilter restricts which advertised products of a dependency are
// in scope for a getDependencies query. The zero value is Everything.
type ProductFilter struct {
	everything bool
	products   map[string]struct{}
}

// Everything returns a filter that admits every product.
func Everything() ProductFilter { return ProductFilter{everything: true} }

// Specific returns a filter that admits only the named products.
func Specific(products ...string) ProductFilter {
	set := make(map[string]struct{}, len(products))
	for _, p := range products {
		set[p] = struct{}{}
	}
	return ProductFilter{products: set}
}

// IsEverything reports whether this filter is unrestricted.
func (f ProductFilter) IsEverything() bool { return f.everything }

// Admits reports whether product is in scope under this filter.
func (f ProductFilter) Admits(product string) bool {
	if f.everything {
		return true
	}
	_, ok := f.products[product]
	return ok
}

// CacheKey returns a stable string suitable for use as half of a
// (version, filter) cache key. Distinct filters with the same product
// set in a different order produce the same key.
func (f ProductFilter) CacheKey() string {
	if f.everything {
		return "*"
	}
	names := make([]string, 0, len(f.products))
	for p := range f.products {
		names = append(names, p)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
