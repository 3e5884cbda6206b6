// Package catalog holds read-side helpers over the product catalog: the
// category lookup table and facet computation.
package catalog

import (
	"context"
	"sort"
	"strings"

	"go-wigstore-api/internal/model"
)

// CategoryLoader is satisfied by repository.CategoryRepository.
type CategoryLoader interface {
	FindAll(ctx context.Context) ([]model.Category, error)
}

// CategoryIndex resolves categories by id or slug in constant time.
// It is built once at startup and read-only afterwards.
type CategoryIndex struct {
	byID   map[string]model.Category
	bySlug map[string]model.Category
	all    []model.Category
}

func NewCategoryIndex(categories []model.Category) *CategoryIndex {
	idx := &CategoryIndex{
		byID:   make(map[string]model.Category, len(categories)),
		bySlug: make(map[string]model.Category, len(categories)),
		all:    make([]model.Category, len(categories)),
	}
	copy(idx.all, categories)
	sort.SliceStable(idx.all, func(i, j int) bool { return idx.all[i].Name < idx.all[j].Name })
	for _, c := range idx.all {
		idx.byID[c.ID] = c
		idx.bySlug[strings.ToLower(c.Slug)] = c
	}
	return idx
}

// LoadCategoryIndex reads every category from the store.
func LoadCategoryIndex(ctx context.Context, loader CategoryLoader) (*CategoryIndex, error) {
	categories, err := loader.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewCategoryIndex(categories), nil
}

// Lookup finds a category by id only.
func (idx *CategoryIndex) Lookup(id string) (model.Category, bool) {
	c, ok := idx.byID[id]
	return c, ok
}

// Resolve accepts either an id or a slug, the two forms the storefront sends.
func (idx *CategoryIndex) Resolve(idOrSlug string) (model.Category, bool) {
	if c, ok := idx.byID[idOrSlug]; ok {
		return c, true
	}
	c, ok := idx.bySlug[strings.ToLower(idOrSlug)]
	return c, ok
}

// All returns the categories ordered by name.
func (idx *CategoryIndex) All() []model.Category {
	out := make([]model.Category, len(idx.all))
	copy(out, idx.all)
	return out
}

// Attach joins each product with its category. A dangling category id
// leaves Category nil.
func (idx *CategoryIndex) Attach(products []model.Product) []model.ProductResponse {
	out := make([]model.ProductResponse, len(products))
	for i := range products {
		out[i] = idx.AttachOne(&products[i])
	}
	return out
}

func (idx *CategoryIndex) AttachOne(p *model.Product) model.ProductResponse {
	resp := model.ProductResponse{Product: *p}
	if c, ok := idx.byID[p.CategoryID]; ok {
		resp.Category = &c
	}
	return resp
}
