package repository

import (
	"context"

	"go-wigstore-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByNumber(ctx context.Context, number string) (*model.Order, error)
	List(ctx context.Context, status model.OrderStatus, page, limit int) ([]model.Order, int64, error)
	Stats(ctx context.Context) (*OrderStats, error)

	Create(tx *gorm.DB, order *model.Order) error
	NumberTaken(tx *gorm.DB, number string) (bool, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.OrderStatus) error
}

type OrderStats struct {
	TotalOrders   int64           `json:"total_orders"`
	PendingOrders int64           `json:"pending_orders"`
	Revenue       decimal.Decimal `json:"revenue"`
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (r *orderRepo) FindByNumber(ctx context.Context, number string) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "order_number = ?", number).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// List returns one page of orders, newest first, plus the unpaged total.
func (r *orderRepo) List(ctx context.Context, status model.OrderStatus, page, limit int) ([]model.Order, int64, error) {
	db := r.db.WithContext(ctx)
	byStatus := func(q *gorm.DB) *gorm.DB {
		if status != "" {
			return q.Where("status = ?", status)
		}
		return q
	}

	var total int64
	if err := db.Model(&model.Order{}).Scopes(byStatus).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := db.Scopes(byStatus).
		Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

// Stats counts revenue over orders that were not cancelled or refunded.
func (r *orderRepo) Stats(ctx context.Context) (*OrderStats, error) {
	stats := OrderStats{Revenue: decimal.Zero}
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Order{}).
		Where("status = ?", model.OrderPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}
	var revenue decimal.NullDecimal
	if err := db.Model(&model.Order{}).
		Where("status NOT IN ?", []model.OrderStatus{model.OrderCancelled, model.OrderRefunded}).
		Select("SUM(total)").
		Row().Scan(&revenue); err != nil {
		return nil, err
	}
	if revenue.Valid {
		stats.Revenue = revenue.Decimal.Round(2)
	}
	return &stats, nil
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) NumberTaken(tx *gorm.DB, number string) (bool, error) {
	var n int64
	err := tx.Unscoped().Model(&model.Order{}).Where("order_number = ?", number).Count(&n).Error
	return n > 0, err
}

func (r *orderRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (r *orderRepo) UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.OrderStatus) error {
	return tx.Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}
