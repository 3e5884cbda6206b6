package repository

import (
	"context"
	"strings"

	"go-wigstore-api/internal/model"
	"go-wigstore-api/internal/query"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	FindAll(ctx context.Context, f query.StoreFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	SKUTaken(ctx context.Context, sku string, exclude uuid.UUID) (bool, error)
	SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	VariantSKUTaken(ctx context.Context, sku string) (bool, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Stats(ctx context.Context, lowStock int) (*CatalogStats, error)

	// The methods below take the transaction handle so stock changes commit
	// or roll back together with the order that caused them.
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error
	AdjustVariantStock(tx *gorm.DB, variantID uuid.UUID, delta int) error
	SyncStockStatus(tx *gorm.DB, id uuid.UUID) error
}

// CatalogStats feeds the admin dashboard.
type CatalogStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindAll(ctx context.Context, f query.StoreFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Preload("Variants")

	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Search != "" {
		like := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		q = q.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')", like, like)
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.HairType != "" {
		q = q.Where("hair_type = ?", f.HairType)
	}
	if f.Quality != "" {
		q = q.Where("quality = ?", f.Quality)
	}
	if f.Texture != "" {
		q = q.Where("LOWER(texture) = ?", strings.ToLower(f.Texture))
	}
	if f.Origin != "" {
		q = q.Where("LOWER(origin) = ?", strings.ToLower(f.Origin))
	}

	var products []model.Product
	err := q.Order("created_at ASC").Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Variants").First(&product, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *productRepo) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Variants").First(&product, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// SKUTaken also sees soft-deleted rows: the unique index still holds them.
func (r *productRepo) SKUTaken(ctx context.Context, sku string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Product{}).
		Where("sku = ? AND id <> ?", sku, exclude).
		Count(&n).Error
	return n > 0, err
}

func (r *productRepo) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Product{}).
		Where("slug = ? AND id <> ?", slug, exclude).
		Count(&n).Error
	return n > 0, err
}

func (r *productRepo) VariantSKUTaken(ctx context.Context, sku string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.ProductVariant{}).
		Where("sku = ?", sku).
		Count(&n).Error
	return n > 0, err
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update saves the product row only; variants change through stock adjustments.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) Stats(ctx context.Context, lowStock int) (*CatalogStats, error) {
	stats := CatalogStats{TotalValuation: decimal.Zero}
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).
		Where("stock < ?", lowStock).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	var valuation decimal.NullDecimal
	if err := db.Model(&model.Product{}).
		Select("SUM(price * stock)").
		Row().Scan(&valuation); err != nil {
		return nil, err
	}
	if valuation.Valid {
		stats.TotalValuation = valuation.Decimal.Round(2)
	}
	return &stats, nil
}

// LockByID reads the product and its variants with a row lock (FOR UPDATE
// on postgres and mysql; sqlite serializes writers instead).
func (r *productRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Clauses(clause.Locking{Strength: "UPDATE"})
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// AdjustStock adds delta to the product stock. A decrement that would take
// stock below zero changes nothing and returns ErrInsufficientStock.
// Soft-deleted rows are included so cancellations can still restock them.
func (r *productRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Unscoped().Model(&model.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *productRepo) AdjustVariantStock(tx *gorm.DB, variantID uuid.UUID, delta int) error {
	res := tx.Unscoped().Model(&model.ProductVariant{}).
		Where("id = ? AND stock + ? >= 0", variantID, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// SyncStockStatus flips ACTIVE <-> OUT_OF_STOCK to match the stock level.
// INACTIVE products are left alone.
func (r *productRepo) SyncStockStatus(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Unscoped().Model(&model.Product{}).
		Where("id = ? AND stock <= 0 AND status = ?", id, model.StatusActive).
		Update("status", model.StatusOutOfStock).Error; err != nil {
		return err
	}
	return tx.Unscoped().Model(&model.Product{}).
		Where("id = ? AND stock > 0 AND status = ?", id, model.StatusOutOfStock).
		Update("status", model.StatusActive).Error
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike makes s match literally inside a LIKE pattern using ESCAPE '!'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
