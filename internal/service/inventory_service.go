package service

import (
	"context"
	"errors"
	"fmt"

	"go-wigstore-api/internal/cache"
	"go-wigstore-api/internal/model"
	"go-wigstore-api/internal/repository"
	"go-wigstore-api/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryService interface {
	Adjust(ctx context.Context, req *AdjustmentRequest, actor Actor) (*AdjustmentResult, error)
	Movements(ctx context.Context, productID *uuid.UUID, limit int) ([]model.StockMovement, error)
}

// AdjustmentRequest is a manual stock count correction or restock.
type AdjustmentRequest struct {
	ProductID uuid.UUID          `json:"product_id" validate:"uuid_required"`
	VariantID *uuid.UUID         `json:"variant_id"`
	Type      model.MovementType `json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int                `json:"quantity" validate:"required,gt=0"`
	Note      string             `json:"note" validate:"max=500"`
}

type AdjustmentResult struct {
	Movement model.StockMovement `json:"movement"`
	NewStock int                 `json:"new_stock"`
}

type inventoryService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	cache        cache.Store
	hub          ws.Publisher
}

func NewInventoryService(db *gorm.DB, pRepo repository.ProductRepository, mRepo repository.StockMovementRepository, store cache.Store, hub ws.Publisher) InventoryService {
	return &inventoryService{
		db:           db,
		productRepo:  pRepo,
		movementRepo: mRepo,
		cache:        store,
		hub:          hub,
	}
}

// Adjust applies an IN or OUT movement under a row lock. OUT never takes
// stock below zero.
func (s *inventoryService) Adjust(ctx context.Context, req *AdjustmentRequest, actor Actor) (*AdjustmentResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	var (
		product  *model.Product
		result   AdjustmentResult
		oldStock int
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = s.productRepo.LockByID(tx, req.ProductID)
		if err != nil {
			return err
		}

		delta := req.Quantity
		if req.Type == model.MovementOut {
			delta = -delta
		}

		if req.VariantID != nil {
			variant := product.FindVariant(*req.VariantID)
			if variant == nil {
				return fmt.Errorf("%w: %s", ErrVariantNotFound, *req.VariantID)
			}
			oldStock = variant.Stock
			if err := s.productRepo.AdjustVariantStock(tx, variant.ID, delta); err != nil {
				return err
			}
		} else {
			oldStock = product.Stock
			if err := s.productRepo.AdjustStock(tx, product.ID, delta); err != nil {
				return err
			}
			if err := s.productRepo.SyncStockStatus(tx, product.ID); err != nil {
				return err
			}
		}
		result.NewStock = oldStock + delta

		reason := model.ReasonAdjustment
		if req.Type == model.MovementIn {
			reason = model.ReasonRestock
		}
		result.Movement = model.StockMovement{
			BaseModel: model.BaseModel{CreatedBy: actor.ID, UpdatedBy: actor.ID},
			ProductID: product.ID,
			VariantID: req.VariantID,
			Type:      req.Type,
			Reason:    reason,
			Quantity:  req.Quantity,
			Note:      req.Note,
		}
		return s.movementRepo.Create(tx, &result.Movement)
	})
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, fmt.Errorf("%w: only %d units of %s remaining", ErrInsufficientStock, oldStock, product.Name)
		}
		return nil, err
	}

	invalidateFacets(ctx, s.cache)

	verb := "added"
	if req.Type == model.MovementOut {
		verb = "removed"
	}
	s.hub.Publish(ws.Event{
		Type:   ws.TypeStockUpdate,
		Action: "stock_adjusted",
		Data: map[string]any{
			"movement_id": result.Movement.ID,
			"product_id":  product.ID,
			"variant_id":  req.VariantID,
			"type":        req.Type,
			"quantity":    req.Quantity,
			"old_stock":   oldStock,
			"new_stock":   result.NewStock,
		},
		User:    actor.Email,
		Message: fmt.Sprintf("%s %s %d units of '%s' (%s)", actor.Name, verb, req.Quantity, product.Name, req.Type),
	})
	return &result, nil
}

func (s *inventoryService) Movements(ctx context.Context, productID *uuid.UUID, limit int) ([]model.StockMovement, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	movements, err := s.movementRepo.List(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	if movements == nil {
		movements = []model.StockMovement{}
	}
	return movements, nil
}
