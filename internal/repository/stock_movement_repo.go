package repository

import (
	"context"
	"time"

	"go-wigstore-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	List(ctx context.Context, productID *uuid.UUID, limit int) ([]model.StockMovement, error)
	DailyTotals(ctx context.Context, start, end time.Time) ([]StockMovementData, error)
}

// StockMovementData is one day of the stock movement chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *stockMovementRepo) List(ctx context.Context, productID *uuid.UUID, limit int) ([]model.StockMovement, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var movements []model.StockMovement
	err := q.Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) DailyTotals(ctx context.Context, start, end time.Time) ([]StockMovementData, error) {
	results := []StockMovementData{}

	rows, err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}
