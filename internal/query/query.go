// Package query turns raw catalog query parameters into a typed product
// query, and holds the in-memory stages of the listing pipeline: the
// post-store predicates, the sort comparators and pagination.
package query

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go-wigstore-api/internal/model"

	"github.com/shopspring/decimal"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// ErrInvalidQuery wraps every parameter parsing failure.
var ErrInvalidQuery = errors.New("invalid query")

// ProductQuery enumerates every supported listing parameter. Nil pointers
// and empty strings mean "no filter".
type ProductQuery struct {
	Category  string // category id or slug
	Search    string
	Featured  *bool
	IsActive  *bool
	Status    model.ProductStatus
	HairType  model.HairType
	Quality   model.Quality
	Texture   string
	Origin    string
	Color     string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinLength *int
	MaxLength *int
	SortBy    SortKey
	Page      int
	Limit     int
}

// StoreFilter is the part of a query pushed down to the repository.
type StoreFilter struct {
	CategoryID string
	Search     string
	Featured   *bool
	IsActive   *bool
	Status     model.ProductStatus
	HairType   model.HairType
	Quality    model.Quality
	Texture    string
	Origin     string
}

type paramSetter func(q *ProductQuery, raw string) error

var params = map[string]paramSetter{
	"category":    func(q *ProductQuery, v string) error { q.Category = v; return nil },
	"category_id": func(q *ProductQuery, v string) error { q.Category = v; return nil },
	"search":      func(q *ProductQuery, v string) error { q.Search = v; return nil },
	"texture":     func(q *ProductQuery, v string) error { q.Texture = v; return nil },
	"origin":      func(q *ProductQuery, v string) error { q.Origin = v; return nil },
	"color":       func(q *ProductQuery, v string) error { q.Color = v; return nil },
	"featured":    boolParam(func(q *ProductQuery) **bool { return &q.Featured }),
	"is_active":   boolParam(func(q *ProductQuery) **bool { return &q.IsActive }),
	"minPrice":    decimalParam(func(q *ProductQuery) **decimal.Decimal { return &q.MinPrice }),
	"maxPrice":    decimalParam(func(q *ProductQuery) **decimal.Decimal { return &q.MaxPrice }),
	"minLength":   intPtrParam(func(q *ProductQuery) **int { return &q.MinLength }),
	"maxLength":   intPtrParam(func(q *ProductQuery) **int { return &q.MaxLength }),
	"sortBy":      func(q *ProductQuery, v string) error { q.SortBy = ParseSortKey(v); return nil },
	"page": func(q *ProductQuery, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("page must be an integer")
		}
		q.Page = n
		return nil
	},
	"limit": func(q *ProductQuery, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("limit must be an integer")
		}
		q.Limit = n
		return nil
	},
	"status": func(q *ProductQuery, v string) error {
		s := model.ProductStatus(strings.ToUpper(v))
		if !contains(model.ProductStatuses, s) {
			return fmt.Errorf("unknown status %q", v)
		}
		q.Status = s
		return nil
	},
	"hair_type": func(q *ProductQuery, v string) error {
		h := model.HairType(strings.ToUpper(v))
		if !contains(model.HairTypes, h) {
			return fmt.Errorf("unknown hair_type %q", v)
		}
		q.HairType = h
		return nil
	},
	"quality": func(q *ProductQuery, v string) error {
		ql := model.Quality(strings.ToUpper(v))
		if !contains(model.Qualities, ql) {
			return fmt.Errorf("unknown quality %q", v)
		}
		q.Quality = ql
		return nil
	},
}

// Parse builds a ProductQuery from raw parameters. Unknown keys are rejected
// so a typo never silently turns into "no filter". Empty values are ignored.
func Parse(raw map[string]string) (ProductQuery, error) {
	q := ProductQuery{SortBy: SortFeatured, Page: DefaultPage, Limit: DefaultLimit}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic first error

	for _, key := range keys {
		set, ok := params[key]
		if !ok {
			return ProductQuery{}, fmt.Errorf("%w: unknown parameter %q", ErrInvalidQuery, key)
		}
		value := strings.TrimSpace(raw[key])
		if value == "" {
			continue
		}
		if err := set(&q, value); err != nil {
			return ProductQuery{}, fmt.Errorf("%w: %s", ErrInvalidQuery, err)
		}
	}

	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return ProductQuery{}, fmt.Errorf("%w: minPrice is greater than maxPrice", ErrInvalidQuery)
	}
	q.Page, q.Limit = clampPage(q.Page, q.Limit)
	return q, nil
}

// Store returns the structural filters; categoryID is the resolved category.
func (q ProductQuery) Store(categoryID string) StoreFilter {
	return StoreFilter{
		CategoryID: categoryID,
		Search:     q.Search,
		Featured:   q.Featured,
		IsActive:   q.IsActive,
		Status:     q.Status,
		HairType:   q.HairType,
		Quality:    q.Quality,
		Texture:    q.Texture,
		Origin:     q.Origin,
	}
}

// MatchesPost applies the filters evaluated after the store query:
// inclusive price bounds, color substring and length range.
func (q ProductQuery) MatchesPost(p *model.Product) bool {
	if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
		return false
	}
	if q.Color != "" && !matchesColor(p, q.Color) {
		return false
	}
	if q.MinLength != nil || q.MaxLength != nil {
		return matchesLength(p, q.MinLength, q.MaxLength)
	}
	return true
}

// FilterPost keeps the products satisfying MatchesPost, preserving order.
func (q ProductQuery) FilterPost(products []model.Product) []model.Product {
	out := products[:0:0]
	for i := range products {
		if q.MatchesPost(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

func matchesColor(p *model.Product, color string) bool {
	needle := strings.ToLower(color)
	if strings.Contains(strings.ToLower(p.Color), needle) {
		return true
	}
	for _, v := range p.Variants {
		if strings.Contains(strings.ToLower(v.Color), needle) {
			return true
		}
	}
	return false
}

func matchesLength(p *model.Product, min, max *int) bool {
	for _, raw := range p.Inches {
		n, ok := ParseLength(raw)
		if !ok {
			continue
		}
		if min != nil && n < *min {
			continue
		}
		if max != nil && n > *max {
			continue
		}
		return true
	}
	return false
}

// ParseLength reads the leading integer of a length label: "18", "18 inch", `18"`.
func ParseLength(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(raw[:end])
	return n, err == nil
}

func boolParam(field func(*ProductQuery) **bool) paramSetter {
	return func(q *ProductQuery, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%q is not a boolean", v)
		}
		*field(q) = &b
		return nil
	}
}

func decimalParam(field func(*ProductQuery) **decimal.Decimal) paramSetter {
	return func(q *ProductQuery, v string) error {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return fmt.Errorf("%q is not a valid price", v)
		}
		*field(q) = &d
		return nil
	}
}

func intPtrParam(field func(*ProductQuery) **int) paramSetter {
	return func(q *ProductQuery, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%q is not a valid length", v)
		}
		*field(q) = &n
		return nil
	}
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
