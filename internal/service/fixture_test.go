package service

import (
	"context"
	"testing"
	"time"

	"go-wigstore-api/internal/cache"
	"go-wigstore-api/internal/catalog"
	"go-wigstore-api/internal/model"
	"go-wigstore-api/internal/repository"
	"go-wigstore-api/internal/testutil"
	"go-wigstore-api/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var admin = Actor{ID: "admin-1", Name: "Ada", Email: "ada@example.com"}

type fixture struct {
	ctx       context.Context
	db        *gorm.DB
	products  repository.ProductRepository
	orderRepo repository.OrderRepository
	movements repository.StockMovementRepository
	cache     *cache.MemoryStore

	catalog   CatalogService
	orders    OrderService
	inventory InventoryService
	dashboard DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	ctx := context.Background()

	f := &fixture{
		ctx:       ctx,
		db:        db,
		products:  repository.NewProductRepo(db),
		orderRepo: repository.NewOrderRepo(db),
		movements: repository.NewStockMovementRepo(db),
		cache:     cache.NewMemoryStore(),
	}

	idx, err := catalog.LoadCategoryIndex(ctx, repository.NewCategoryRepo(db))
	require.NoError(t, err)

	f.catalog = NewCatalogService(f.products, idx, f.cache, time.Minute, ws.Discard)
	f.orders = NewOrderService(db, f.products, f.orderRepo, f.movements, DefaultPricing(),
		PaymentDirectory{StoreAddress: "12 Market Street", MTNMerchantNumber: "670000000"}, f.cache, ws.Discard)
	f.inventory = NewInventoryService(db, f.products, f.movements, f.cache, ws.Discard)
	f.dashboard = NewDashboardService(f.products, f.orderRepo, f.movements, 5)
	return f
}

type productOpt func(*model.Product)

func withCategory(id string) productOpt { return func(p *model.Product) { p.CategoryID = id } }
func inactive() productOpt             { return func(p *model.Product) { p.IsActive = false } }
func featured() productOpt             { return func(p *model.Product) { p.Featured = true } }
func withVariant(sku string, stock int) productOpt {
	return func(p *model.Product) {
		p.Variants = append(p.Variants, model.ProductVariant{SKU: sku, Color: "Natural Black", Length: "18", Stock: stock})
	}
}

// seedProduct inserts a product straight through the repository.
func (f *fixture) seedProduct(t *testing.T, name, price string, stock int, opts ...productOpt) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:       name,
		Slug:       uuid.NewString(),
		SKU:        "SKU-" + uuid.NewString()[:8],
		Price:      decimal.RequireFromString(price),
		CategoryID: model.CategorySynthetic,
		IsActive:   true,
		Status:     model.StatusActive,
		Stock:      stock,
		Inches:     []string{},
		Tags:       []string{},
		Images:     []string{},
		Rating:     decimal.Zero,
	}
	for _, o := range opts {
		o(p)
	}
	require.NoError(t, f.products.Create(f.ctx, p))
	return p
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) *model.Product {
	t.Helper()
	p, err := f.products.FindByID(f.ctx, id)
	require.NoError(t, err)
	return p
}
