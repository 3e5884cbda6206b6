package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go-wigstore-api/internal/cache"
	"go-wigstore-api/internal/cart"
	"go-wigstore-api/internal/model"
	"go-wigstore-api/internal/query"
	"go-wigstore-api/internal/repository"
	"go-wigstore-api/internal/ws"
	"go-wigstore-api/pkg/logger"
	"go-wigstore-api/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderNumberAttempts = 5

type OrderService interface {
	Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error)
	Cancel(ctx context.Context, id uuid.UUID, actor Actor) (*model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next model.OrderStatus, actor Actor) (*model.Order, error)
	List(ctx context.Context, status model.OrderStatus, page, limit int) (*OrderList, error)
	Get(ctx context.Context, idOrNumber string) (*model.Order, error)
	Confirmation(ctx context.Context, id uuid.UUID) (*Confirmation, error)
}

type CustomerInfo struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

type CheckoutRequest struct {
	Items           []cart.Item         `json:"items"`
	CustomerInfo    CustomerInfo        `json:"customerInfo"`
	PaymentMethod   model.PaymentMethod `json:"paymentMethod" validate:"required,oneof=CASH_ON_PICKUP MTN_MOBILE_MONEY ORANGE_MONEY"`
	ShippingAddress model.Address       `json:"shippingAddress"`
	BillingAddress  *model.Address      `json:"billingAddress"`
	Notes           string              `json:"notes"`
}

type CheckoutResult struct {
	OrderID     uuid.UUID         `json:"orderId"`
	OrderNumber string            `json:"orderNumber"`
	Status      model.OrderStatus `json:"status"`
	Total       decimal.Decimal   `json:"total"`
}

type OrderList struct {
	Orders     []model.Order    `json:"orders"`
	Pagination query.Pagination `json:"pagination"`
}

type orderService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	movementRepo repository.StockMovementRepository
	pricing      Pricing
	payments     PaymentDirectory
	cache        cache.Store
	hub          ws.Publisher

	now   func() time.Time
	randN func(n int) int
}

func NewOrderService(
	db *gorm.DB,
	pRepo repository.ProductRepository,
	oRepo repository.OrderRepository,
	mRepo repository.StockMovementRepository,
	pricing Pricing,
	payments PaymentDirectory,
	store cache.Store,
	hub ws.Publisher,
) OrderService {
	return &orderService{
		db:           db,
		productRepo:  pRepo,
		orderRepo:    oRepo,
		movementRepo: mRepo,
		pricing:      pricing,
		payments:     payments,
		cache:        store,
		hub:          hub,
		now:          time.Now,
		randN:        rand.IntN,
	}
}

// Checkout turns a cart into an order. Prices come from the catalog, and
// every write (order, items, stock, ledger) commits in one transaction or
// not at all.
func (s *orderService) Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error) {
	if err := validate(req); err != nil {
		metrics.OrdersRejected.WithLabelValues("invalid").Inc()
		return nil, err
	}
	basket, err := cart.Normalize(req.Items)
	if err != nil {
		metrics.OrdersRejected.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if req.PaymentMethod != model.PayCashOnPickup && req.CustomerInfo.Phone == "" {
		metrics.OrdersRejected.WithLabelValues("invalid").Inc()
		return nil, invalid("a phone number is required for mobile money payments")
	}

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}
	order := &model.Order{
		CustomerName:    req.CustomerInfo.Name,
		Email:           req.CustomerInfo.Email,
		Phone:           req.CustomerInfo.Phone,
		Status:          model.OrderPending,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		Notes:           req.Notes,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, err := s.priceLines(tx, basket.Lines())
		if err != nil {
			return err
		}

		subtotal := decimal.Zero
		for _, it := range items {
			subtotal = subtotal.Add(it.Total)
		}
		totals := s.pricing.Compute(subtotal)
		order.Subtotal = totals.Subtotal
		order.Tax = totals.Tax
		order.Shipping = totals.Shipping
		order.Discount = totals.Discount
		order.Total = totals.Total
		order.Items = items

		if order.OrderNumber, err = s.allocateNumber(tx); err != nil {
			return err
		}
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}

		for _, it := range order.Items {
			if err := s.takeStock(tx, order.ID, it); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.OrdersRejected.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}

	metrics.OrdersCreated.WithLabelValues(string(order.PaymentMethod)).Inc()
	invalidateFacets(ctx, s.cache)
	log := logger.WithCtx(ctx)
	log.Info("order created",
		"order_number", order.OrderNumber,
		"units", basket.Count(),
		"total", order.Total.StringFixed(2),
		"payment_method", order.PaymentMethod,
	)
	if shown := basket.Subtotal().Round(2); !shown.Equal(order.Subtotal) {
		log.Warn("cart prices were stale",
			"order_number", order.OrderNumber,
			"cart_subtotal", shown.StringFixed(2),
			"subtotal", order.Subtotal.StringFixed(2),
		)
	}
	s.hub.Publish(ws.Event{
		Type:   ws.TypeOrderUpdate,
		Action: "order_created",
		Data: map[string]any{
			"id":           order.ID,
			"order_number": order.OrderNumber,
			"total":        order.Total,
			"items":        len(order.Items),
		},
		Message: fmt.Sprintf("New order %s (%s)", order.OrderNumber, order.Total.StringFixed(2)),
	})

	return &CheckoutResult{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Total:       order.Total,
	}, nil
}

// priceLines locks each product and snapshots its catalog price.
func (s *orderService) priceLines(tx *gorm.DB, lines []cart.Item) ([]model.OrderItem, error) {
	locked := make(map[uuid.UUID]*model.Product, len(lines))
	items := make([]model.OrderItem, 0, len(lines))

	for _, line := range lines {
		if line.Quantity <= 0 || line.Quantity > cart.MaxLineQuantity {
			return nil, invalid("quantity %d out of range for product %s", line.Quantity, line.ProductID)
		}
		product, ok := locked[line.ProductID]
		if !ok {
			var err error
			product, err = s.productRepo.LockByID(tx, line.ProductID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, line.ProductID)
			}
			if err != nil {
				return nil, err
			}
			locked[line.ProductID] = product
		}
		if !product.Purchasable() {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
		}

		variant, err := resolveVariant(product, line)
		if err != nil {
			return nil, err
		}

		price := product.UnitPrice(variant)
		item := model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			SKU:         product.SKU,
			Quantity:    line.Quantity,
			Price:       price,
			Total:       price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
		}
		if variant != nil {
			vid := variant.ID
			item.VariantID = &vid
			item.SKU = variant.SKU
		}
		items = append(items, item)
	}
	return items, nil
}

// resolveVariant picks the variant by id, else by descriptor. A product
// without variants sells at product level whatever descriptor is sent.
func resolveVariant(p *model.Product, line cart.Item) (*model.ProductVariant, error) {
	if line.VariantID != nil {
		v := p.FindVariant(*line.VariantID)
		if v == nil {
			return nil, fmt.Errorf("%w: %s", ErrVariantNotFound, *line.VariantID)
		}
		return v, nil
	}
	if line.Variant.IsZero() || len(p.Variants) == 0 {
		return nil, nil
	}
	v := p.MatchVariant(line.Variant.Color, line.Variant.Length, line.Variant.Density)
	if v == nil {
		return nil, fmt.Errorf("%w: %s %s/%s/%s", ErrVariantNotFound, p.Name,
			line.Variant.Color, line.Variant.Length, line.Variant.Density)
	}
	return v, nil
}

func (s *orderService) takeStock(tx *gorm.DB, orderID uuid.UUID, it model.OrderItem) error {
	if err := s.moveStock(tx, it, -it.Quantity); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return fmt.Errorf("%w: %s", ErrInsufficientStock, it.ProductName)
		}
		return err
	}
	return s.movementRepo.Create(tx, &model.StockMovement{
		ProductID: it.ProductID,
		VariantID: it.VariantID,
		Type:      model.MovementOut,
		Reason:    model.ReasonOrder,
		Quantity:  it.Quantity,
		OrderID:   &orderID,
	})
}

func (s *orderService) moveStock(tx *gorm.DB, it model.OrderItem, delta int) error {
	if it.VariantID != nil {
		return s.productRepo.AdjustVariantStock(tx, *it.VariantID, delta)
	}
	if err := s.productRepo.AdjustStock(tx, it.ProductID, delta); err != nil {
		return err
	}
	return s.productRepo.SyncStockStatus(tx, it.ProductID)
}

// allocateNumber draws ORD-YYYYMMDD-NNNN numbers until one is unused.
func (s *orderService) allocateNumber(tx *gorm.DB) (string, error) {
	date := s.now().Format("20060102")
	for i := 0; i < orderNumberAttempts; i++ {
		number := fmt.Sprintf("ORD-%s-%04d", date, s.randN(10000))
		taken, err := s.orderRepo.NumberTaken(tx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", ErrOrderNumberExhausted
}

// Cancel releases the order's stock and marks it CANCELLED. Only PENDING
// and PROCESSING orders can be cancelled.
func (s *orderService) Cancel(ctx context.Context, id uuid.UUID, actor Actor) (*model.Order, error) {
	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.orderRepo.LockByID(tx, id)
		if err != nil {
			return err
		}
		if !order.Status.Cancellable() {
			return fmt.Errorf("%w: order is %s", ErrOrderNotCancellable, order.Status)
		}

		for _, it := range order.Items {
			if err := s.moveStock(tx, it, it.Quantity); err != nil {
				return fmt.Errorf("restock %s: %w", it.SKU, err)
			}
			if err := s.movementRepo.Create(tx, &model.StockMovement{
				BaseModel: model.BaseModel{CreatedBy: actor.ID},
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				Type:      model.MovementIn,
				Reason:    model.ReasonCancel,
				Quantity:  it.Quantity,
				OrderID:   &order.ID,
			}); err != nil {
				return err
			}
		}

		order.Status = model.OrderCancelled
		return s.orderRepo.UpdateStatus(tx, order.ID, model.OrderCancelled)
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCancelled.Inc()
	invalidateFacets(ctx, s.cache)
	s.hub.Publish(ws.Event{
		Type:    ws.TypeOrderUpdate,
		Action:  "order_cancelled",
		Data:    map[string]any{"id": order.ID, "order_number": order.OrderNumber},
		User:    actor.Email,
		Message: fmt.Sprintf("%s cancelled order %s", actor.Name, order.OrderNumber),
	})
	return order, nil
}

// UpdateStatus moves an order forward. CANCELLED is routed through Cancel
// so stock is restored.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, next model.OrderStatus, actor Actor) (*model.Order, error) {
	if !next.Valid() {
		return nil, invalid("unknown order status %q", next)
	}
	if next == model.OrderCancelled {
		return s.Cancel(ctx, id, actor)
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.orderRepo.LockByID(tx, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransition(next) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, next)
		}
		order.Status = next
		return s.orderRepo.UpdateStatus(tx, order.ID, next)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ws.Event{
		Type:    ws.TypeOrderUpdate,
		Action:  "order_status_changed",
		Data:    map[string]any{"id": order.ID, "order_number": order.OrderNumber, "status": next},
		User:    actor.Email,
		Message: fmt.Sprintf("%s moved order %s to %s", actor.Name, order.OrderNumber, next),
	})
	return order, nil
}

func (s *orderService) List(ctx context.Context, status model.OrderStatus, page, limit int) (*OrderList, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("unknown order status %q", status)
	}
	page, limit = query.Clamp(page, limit)

	orders, total, err := s.orderRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return &OrderList{
		Orders:     orders,
		Pagination: query.NewPagination(page, limit, int(total)),
	}, nil
}

// Get accepts an order id or an order number.
func (s *orderService) Get(ctx context.Context, idOrNumber string) (*model.Order, error) {
	if id, err := uuid.Parse(idOrNumber); err == nil {
		return s.orderRepo.FindByID(ctx, id)
	}
	return s.orderRepo.FindByNumber(ctx, idOrNumber)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
