package catalog

import (
	"sort"
	"strings"

	"go-wigstore-api/internal/model"
	"go-wigstore-api/internal/query"

	"github.com/shopspring/decimal"
)

// PriceRange is the min and max price over the faceted products.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Facets lists the distinct attribute values the storefront offers as filters.
type Facets struct {
	HairTypes  []model.HairType `json:"hairTypes"`
	Qualities  []model.Quality  `json:"qualities"`
	Textures   []string         `json:"textures"`
	Origins    []string         `json:"origins"`
	Colors     []string         `json:"colors"`
	Lengths    []string         `json:"lengths"`
	PriceRange PriceRange       `json:"priceRange"`
}

// ComputeFacets walks the products once, collecting values into sets.
// Free-text values are de-duplicated case-insensitively; the first spelling
// seen wins.
func ComputeFacets(products []model.Product) Facets {
	hairTypes := map[model.HairType]struct{}{}
	qualities := map[model.Quality]struct{}{}
	textures := newFoldSet()
	origins := newFoldSet()
	colors := newFoldSet()
	lengths := newFoldSet()

	var pr PriceRange
	for i := range products {
		p := &products[i]
		if p.HairType != "" {
			hairTypes[p.HairType] = struct{}{}
		}
		if p.Quality != "" {
			qualities[p.Quality] = struct{}{}
		}
		textures.add(p.Texture)
		origins.add(p.Origin)
		colors.add(p.Color)
		for _, in := range p.Inches {
			lengths.add(in)
		}
		for _, v := range p.Variants {
			colors.add(v.Color)
			lengths.add(v.Length)
		}

		if i == 0 || p.Price.LessThan(pr.Min) {
			pr.Min = p.Price
		}
		if i == 0 || p.Price.GreaterThan(pr.Max) {
			pr.Max = p.Price
		}
	}

	f := Facets{
		HairTypes:  ordered(model.HairTypes, hairTypes),
		Qualities:  ordered(model.Qualities, qualities),
		Textures:   textures.sorted(),
		Origins:    origins.sorted(),
		Colors:     colors.sorted(),
		Lengths:    lengths.values(),
		PriceRange: pr,
	}
	sortLengths(f.Lengths)
	return f
}

// ordered keeps enum facets in their declared order.
func ordered[T comparable](all []T, seen map[T]struct{}) []T {
	out := make([]T, 0, len(seen))
	for _, v := range all {
		if _, ok := seen[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

type foldSet struct {
	seen  map[string]struct{}
	order []string
}

func newFoldSet() *foldSet {
	return &foldSet{seen: map[string]struct{}{}}
}

func (s *foldSet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	k := strings.ToLower(v)
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.order = append(s.order, v)
}

func (s *foldSet) values() []string {
	return append([]string{}, s.order...)
}

func (s *foldSet) sorted() []string {
	out := s.values()
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out
}

// sortLengths orders numerically where a length parses, lexically otherwise.
func sortLengths(lengths []string) {
	sort.SliceStable(lengths, func(i, j int) bool {
		a, aok := query.ParseLength(lengths[i])
		b, bok := query.ParseLength(lengths[j])
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		default:
			return lengths[i] < lengths[j]
		}
	})
}
