package service

import (
	"context"
	"time"

	"go-wigstore-api/internal/repository"
)

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type DashboardStats struct {
	repository.CatalogStats
	repository.OrderStats
}

type dashboardService struct {
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	movementRepo repository.StockMovementRepository
	lowStock     int
}

func NewDashboardService(pRepo repository.ProductRepository, oRepo repository.OrderRepository, mRepo repository.StockMovementRepository, lowStock int) DashboardService {
	return &dashboardService{
		productRepo:  pRepo,
		orderRepo:    oRepo,
		movementRepo: mRepo,
		lowStock:     lowStock,
	}
}

func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	if days <= 0 || days > 365 {
		days = 7
	}
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.movementRepo.DailyTotals(ctx, startDate, endDate)
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	catalogStats, err := s.productRepo.Stats(ctx, s.lowStock)
	if err != nil {
		return nil, err
	}
	orderStats, err := s.orderRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{CatalogStats: *catalogStats, OrderStats: *orderStats}, nil
}
