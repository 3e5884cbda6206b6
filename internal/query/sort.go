package query

import (
	"sort"

	"go-wigstore-api/internal/model"
)

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNewest    SortKey = "newest"
)

// ParseSortKey maps unknown values to SortFeatured.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceAsc, SortPriceDesc, SortNewest, SortFeatured:
		return k
	default:
		return SortFeatured
	}
}

// Sort orders products in place. Every comparator is stable, so ties keep
// the store order.
func Sort(products []model.Product, key SortKey) {
	var less func(a, b *model.Product) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b *model.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b *model.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortNewest:
		less = func(a, b *model.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		less = func(a, b *model.Product) bool { return a.Featured && !b.Featured }
	}
	sort.SliceStable(products, func(i, j int) bool {
		return less(&products[i], &products[j])
	})
}
