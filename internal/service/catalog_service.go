package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-wigstore-api/internal/cache"
	"go-wigstore-api/internal/catalog"
	"go-wigstore-api/internal/model"
	"go-wigstore-api/internal/query"
	"go-wigstore-api/internal/repository"
	"go-wigstore-api/internal/ws"
	"go-wigstore-api/pkg/logger"
	"go-wigstore-api/pkg/metrics"
	"go-wigstore-api/pkg/slug"

	"github.com/google/uuid"
)

// FacetsCacheKey is dropped whenever product data or stock changes.
const (
	FacetsCacheKey      = "catalog:facets"
	FacetsGenerationKey = "catalog:facets:gen"
)

// facetsEntry ties cached facets to the catalog generation they were read at.
type facetsEntry struct {
	Generation string         `json:"generation"`
	Facets     catalog.Facets `json:"facets"`
}

const maxSlugAttempts = 50

type CatalogService interface {
	ListProducts(ctx context.Context, q query.ProductQuery) (*ProductList, error)
	GetProduct(ctx context.Context, idOrSlug string) (*model.ProductResponse, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest, actor Actor) (*model.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor Actor) (*model.ProductResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error
	ImportProducts(ctx context.Context, reqs []CreateProductRequest, actor Actor) (*ImportReport, error)
	Facets(ctx context.Context) (*catalog.Facets, error)
	Categories() []model.Category
}

type ProductList struct {
	Products   []model.ProductResponse `json:"products"`
	Pagination query.Pagination        `json:"pagination"`
}

type catalogService struct {
	productRepo repository.ProductRepository
	categories  *catalog.CategoryIndex
	cache       cache.Store
	cacheTTL    time.Duration
	hub         ws.Publisher
}

func NewCatalogService(pRepo repository.ProductRepository, categories *catalog.CategoryIndex, store cache.Store, ttl time.Duration, hub ws.Publisher) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		categories:  categories,
		cache:       store,
		cacheTTL:    ttl,
		hub:         hub,
	}
}

// ListProducts runs the listing pipeline: store filters, in-memory
// predicates, sort, then pagination.
func (s *catalogService) ListProducts(ctx context.Context, q query.ProductQuery) (*ProductList, error) {
	categoryID := ""
	if q.Category != "" {
		categoryID = q.Category
		if c, ok := s.categories.Resolve(q.Category); ok {
			categoryID = c.ID
		}
	}

	products, err := s.productRepo.FindAll(ctx, q.Store(categoryID))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products = q.FilterPost(products)
	query.Sort(products, q.SortBy)
	page, pagination := query.Paginate(products, q.Page, q.Limit)

	return &ProductList{
		Products:   s.categories.Attach(page),
		Pagination: pagination,
	}, nil
}

// GetProduct accepts a uuid or a slug.
func (s *catalogService) GetProduct(ctx context.Context, idOrSlug string) (*model.ProductResponse, error) {
	var (
		product *model.Product
		err     error
	)
	if id, perr := uuid.Parse(idOrSlug); perr == nil {
		product, err = s.productRepo.FindByID(ctx, id)
	} else {
		product, err = s.productRepo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	resp := s.categories.AttachOne(product)
	return &resp, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req *CreateProductRequest, actor Actor) (*model.ProductResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, ok := s.categories.Lookup(req.CategoryID); !ok {
		return nil, ErrUnknownCategory
	}

	product := req.toModel()

	taken, err := s.productRepo.SKUTaken(ctx, product.SKU, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("sku %q already exists", product.SKU)
	}
	if err := s.checkVariantSKUs(ctx, product); err != nil {
		return nil, err
	}

	if product.Slug != "" {
		if !slug.Valid(product.Slug) {
			return nil, invalid("slug %q is not URL-safe", product.Slug)
		}
		taken, err := s.productRepo.SlugTaken(ctx, product.Slug, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, conflict("slug %q already exists", product.Slug)
		}
	} else {
		product.Slug, err = s.deriveSlug(ctx, product.Name, product.SKU)
		if err != nil {
			return nil, err
		}
	}

	product.CreatedBy = actor.ID
	product.UpdatedBy = actor.ID

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.invalidateFacets(ctx)

	s.hub.Publish(ws.Event{
		Type:    ws.TypeStockUpdate,
		Action:  "product_created",
		Data:    productSummary(product),
		User:    actor.Email,
		Message: fmt.Sprintf("%s created product '%s'", actor.Name, product.Name),
	})

	resp := s.categories.AttachOne(product)
	return &resp, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor Actor) (*model.ProductResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStock := product.Stock

	if req.CategoryID != nil {
		if _, ok := s.categories.Lookup(*req.CategoryID); !ok {
			return nil, ErrUnknownCategory
		}
	}
	if req.SKU != nil && *req.SKU != product.SKU {
		taken, err := s.productRepo.SKUTaken(ctx, *req.SKU, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, conflict("sku %q already exists", *req.SKU)
		}
	}
	if req.Slug != nil && *req.Slug != product.Slug {
		if !slug.Valid(*req.Slug) {
			return nil, invalid("slug %q is not URL-safe", *req.Slug)
		}
		taken, err := s.productRepo.SlugTaken(ctx, *req.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, conflict("slug %q already exists", *req.Slug)
		}
		product.Slug = *req.Slug
	}

	if stockChanged := req.apply(product); stockChanged && req.Status == nil {
		syncStatus(product)
	}
	product.UpdatedBy = actor.ID

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidateFacets(ctx)

	s.hub.Publish(ws.Event{
		Type:   ws.TypeStockUpdate,
		Action: "product_updated",
		Data: map[string]any{
			"product":   productSummary(product),
			"old_stock": oldStock,
			"new_stock": product.Stock,
		},
		User:    actor.Email,
		Message: fmt.Sprintf("%s updated product '%s'", actor.Name, product.Name),
	})

	resp := s.categories.AttachOne(product)
	return &resp, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error {
	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidateFacets(ctx)

	s.hub.Publish(ws.Event{
		Type:    ws.TypeStockUpdate,
		Action:  "product_deleted",
		Data:    map[string]any{"id": id},
		User:    actor.Email,
		Message: fmt.Sprintf("%s deleted a product", actor.Name),
	})
	return nil
}

// ImportReport summarizes a bulk load.
type ImportReport struct {
	Created int             `json:"created"`
	Skipped int             `json:"skipped"`
	Failed  []ImportFailure `json:"failed"`
}

type ImportFailure struct {
	Index int    `json:"index"`
	SKU   string `json:"sku"`
	Error string `json:"error"`
}

// ImportProducts creates each product in turn. Rows whose SKU or slug
// already exists are skipped so an import can be re-run; invalid rows are
// reported and do not stop the load.
func (s *catalogService) ImportProducts(ctx context.Context, reqs []CreateProductRequest, actor Actor) (*ImportReport, error) {
	report := &ImportReport{Failed: []ImportFailure{}}
	for i := range reqs {
		_, err := s.CreateProduct(ctx, &reqs[i], actor)
		switch {
		case err == nil:
			report.Created++
		case errors.Is(err, ErrConflict):
			report.Skipped++
		case errors.Is(err, ErrValidation):
			report.Failed = append(report.Failed, ImportFailure{Index: i, SKU: reqs[i].SKU, Error: err.Error()})
		default:
			return report, fmt.Errorf("import row %d: %w", i, err)
		}
	}
	return report, nil
}

// Facets serves the filter options from cache, computing them over active
// products on a miss.
// An entry from an older generation is a miss, so a computation that raced
// with a write never outlives the invalidation.
func (s *catalogService) Facets(ctx context.Context) (*catalog.Facets, error) {
	gen := facetsGeneration(ctx, s.cache)
	var cached facetsEntry
	if s.cache.Get(ctx, FacetsCacheKey, &cached) && cached.Generation == gen {
		metrics.CacheHits.WithLabelValues(s.cache.Driver()).Inc()
		return &cached.Facets, nil
	}
	metrics.CacheMisses.WithLabelValues(s.cache.Driver()).Inc()

	active := true
	products, err := s.productRepo.FindAll(ctx, query.StoreFilter{IsActive: &active})
	if err != nil {
		return nil, fmt.Errorf("facets: %w", err)
	}
	facets := catalog.ComputeFacets(products)

	entry := facetsEntry{Generation: gen, Facets: facets}
	if err := s.cache.Set(ctx, FacetsCacheKey, entry, s.cacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("facet cache write failed", "driver", s.cache.Driver(), "error", err)
	}
	return &facets, nil
}

func (s *catalogService) Categories() []model.Category {
	return s.categories.All()
}

func (s *catalogService) invalidateFacets(ctx context.Context) {
	invalidateFacets(ctx, s.cache)
}

// deriveSlug builds a slug from the name (or the SKU when the name has no
// usable characters) and appends -2, -3... until it is free.
func (s *catalogService) deriveSlug(ctx context.Context, name, sku string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = slug.Make(sku)
	}
	if base == "" {
		return "", invalid("cannot derive a slug from name %q", name)
	}

	candidate := base
	for n := 2; n <= maxSlugAttempts+1; n++ {
		taken, err := s.productRepo.SlugTaken(ctx, candidate, uuid.Nil)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", conflict("no free slug for %q", base)
}

func (s *catalogService) checkVariantSKUs(ctx context.Context, p *model.Product) error {
	seen := map[string]struct{}{p.SKU: {}}
	for _, v := range p.Variants {
		if _, dup := seen[v.SKU]; dup {
			return invalid("duplicate variant sku %q", v.SKU)
		}
		seen[v.SKU] = struct{}{}

		taken, err := s.productRepo.VariantSKUTaken(ctx, v.SKU)
		if err != nil {
			return err
		}
		if taken {
			return conflict("variant sku %q already exists", v.SKU)
		}
	}
	return nil
}

// invalidateFacets starts a new generation before dropping the entry.
func invalidateFacets(ctx context.Context, store cache.Store) {
	if err := store.Set(ctx, FacetsGenerationKey, uuid.NewString(), 0); err != nil {
		logger.WithCtx(ctx).Warn("facet generation bump failed", "driver", store.Driver(), "error", err)
	}
	if err := store.Del(ctx, FacetsCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("facet cache invalidation failed", "driver", store.Driver(), "error", err)
	}
}

// syncStatus mirrors repository.SyncStockStatus for in-memory edits.
func syncStatus(p *model.Product) {
	switch {
	case p.Stock <= 0 && p.Status == model.StatusActive:
		p.Status = model.StatusOutOfStock
	case p.Stock > 0 && p.Status == model.StatusOutOfStock:
		p.Status = model.StatusActive
	}
}

func productSummary(p *model.Product) map[string]any {
	return map[string]any{
		"id":    p.ID,
		"sku":   p.SKU,
		"name":  p.Name,
		"stock": p.Stock,
		"price": p.Price,
	}
}

func facetsGeneration(ctx context.Context, store cache.Store) string {
	var gen string
	store.Get(ctx, FacetsGenerationKey, &gen)
	return gen
}
