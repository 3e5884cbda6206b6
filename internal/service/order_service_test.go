package service

import (
	"math"
	"regexp"
	"strings"
	"testing"

	"go-wigstore-api/internal/cart"
	"go-wigstore-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutRequest(method model.PaymentMethod, items ...cart.Item) *CheckoutRequest {
	return &CheckoutRequest{
		Items:         items,
		CustomerInfo:  CustomerInfo{Name: "Grace", Email: "grace@example.com", Phone: "670000001"},
		PaymentMethod: method,
		ShippingAddress: model.Address{
			FullName: "Grace", Line1: "1 Main Road", City: "Douala", Country: "CM",
		},
	}
}

func line(p *model.Product, qty int) cart.Item {
	return cart.Item{ProductID: p.ID, Quantity: qty, Price: decimal.NewFromInt(1)}
}

func countRows(t *testing.T, f *fixture, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func TestCheckoutTwoLineOrderTotals(t *testing.T) {
	f := newFixture(t)
	a := f.seedProduct(t, "Deep Wave 24", "100", 10)
	b := f.seedProduct(t, "Edge Control", "50", 10)

	res, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(a, 2), line(b, 1)))
	require.NoError(t, err)

	assert.True(t, res.Total.Equal(decimal.NewFromInt(270)), res.Total.String())
	assert.Equal(t, model.OrderPending, res.Status)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-\d{4}$`), res.OrderNumber)

	order, err := f.orders.Get(f.ctx, res.OrderID.String())
	require.NoError(t, err)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(250)))
	assert.True(t, order.Tax.Equal(decimal.NewFromInt(20)))
	assert.True(t, order.Shipping.IsZero())
	assert.True(t, order.Total.Equal(order.Subtotal.Add(order.Tax).Add(order.Shipping).Sub(order.Discount)))
	require.Len(t, order.Items, 2)

	assert.Equal(t, 8, f.reload(t, a.ID).Stock)
	assert.Equal(t, 9, f.reload(t, b.ID).Stock)
	assert.Equal(t, int64(2), countRows(t, f, &model.StockMovement{}))

	byNumber, err := f.orders.Get(f.ctx, res.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, res.OrderID, byNumber.ID)
}

func TestCheckoutRejectsOverflowingQuantities(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Kinky Straight", "10", 5)

	_, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(p, math.MaxInt), line(p, math.MaxInt)))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(p, cart.MaxLineQuantity), line(p, 1)))
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, 5, f.reload(t, p.ID).Stock)
	assert.Equal(t, int64(0), countRows(t, f, &model.Order{}))
	assert.Equal(t, int64(0), countRows(t, f, &model.StockMovement{}))
}

func TestCheckoutIgnoresClientPrices(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Lace Unit", "40", 5)

	item := line(p, 1)
	item.Price = decimal.RequireFromString("0.01")
	res, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, item))
	require.NoError(t, err)

	// 40 + 3.20 tax + 10 shipping
	assert.True(t, res.Total.Equal(decimal.RequireFromString("53.20")), res.Total.String())
}

func TestCheckoutMergesDuplicateLines(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Bundle", "20", 5)

	res, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(p, 1), line(p, 2)))
	require.NoError(t, err)

	order, err := f.orders.Get(f.ctx, res.OrderID.String())
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 2, f.reload(t, p.ID).Stock)
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	plenty := f.seedProduct(t, "Plenty", "30", 5)
	scarce := f.seedProduct(t, "Scarce", "30", 1)

	_, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(plenty, 2), line(scarce, 3)))
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Scarce")

	assert.Equal(t, 5, f.reload(t, plenty.ID).Stock)
	assert.Equal(t, 1, f.reload(t, scarce.ID).Stock)
	assert.Zero(t, countRows(t, f, &model.Order{}))
	assert.Zero(t, countRows(t, f, &model.OrderItem{}))
	assert.Zero(t, countRows(t, f, &model.StockMovement{}))
}

func TestCheckoutRejections(t *testing.T) {
	f := newFixture(t)
	active := f.seedProduct(t, "Active", "10", 5)
	hidden := f.seedProduct(t, "Hidden", "10", 5, inactive())

	_, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup))
	assert.ErrorIs(t, err, ErrValidation, "empty cart")

	_, err = f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(active, 0)))
	assert.ErrorIs(t, err, ErrValidation, "zero quantity")

	_, err = f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(hidden, 1)))
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, cart.Item{ProductID: uuid.New(), Quantity: 1}))
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = f.orders.Checkout(f.ctx, checkoutRequest("BITCOIN", line(active, 1)))
	assert.ErrorIs(t, err, ErrValidation)

	noPhone := checkoutRequest(model.PayOrangeMoney, line(active, 1))
	noPhone.CustomerInfo.Phone = ""
	_, err = f.orders.Checkout(f.ctx, noPhone)
	assert.ErrorIs(t, err, ErrValidation)

	badEmail := checkoutRequest(model.PayCashOnPickup, line(active, 1))
	badEmail.CustomerInfo.Email = "not-an-email"
	_, err = f.orders.Checkout(f.ctx, badEmail)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, 5, f.reload(t, active.ID).Stock)
}

func TestCheckoutVariantByDescriptor(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Body Wave", "90", 0, withVariant("BW-18-BLK", 4))
	override := decimal.NewFromInt(120)
	require.NoError(t, f.db.Model(&model.ProductVariant{}).Where("sku = ?", "BW-18-BLK").Update("price", override).Error)

	item := cart.Item{ProductID: p.ID, Quantity: 1, Variant: cart.VariantDescriptor{Color: "natural black", Length: "18"}}
	res, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayMTNMobileMoney, item))
	require.NoError(t, err)

	order, err := f.orders.Get(f.ctx, res.OrderID.String())
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "BW-18-BLK", order.Items[0].SKU)
	assert.True(t, order.Items[0].Price.Equal(override))
	require.NotNil(t, order.Items[0].VariantID)

	reloaded := f.reload(t, p.ID)
	assert.Equal(t, 3, reloaded.Variants[0].Stock)
	assert.Equal(t, 0, reloaded.Stock, "variant lines leave product stock alone")

	miss := cart.Item{ProductID: p.ID, Quantity: 1, Variant: cart.VariantDescriptor{Color: "Blonde"}}
	_, err = f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, miss))
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestCheckoutLastUnitMarksOutOfStock(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Last Two", "15", 2)

	res, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(p, 2)))
	require.NoError(t, err)
	got := f.reload(t, p.ID)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, model.StatusOutOfStock, got.Status)

	_, err = f.orders.Cancel(f.ctx, res.OrderID, admin)
	require.NoError(t, err)
	got = f.reload(t, p.ID)
	assert.Equal(t, 2, got.Stock)
	assert.Equal(t, model.StatusActive, got.Status)
}

func TestCancelPendingRestoresVariantStock(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Water Wave", "60", 0, withVariant("WW-18", 5))
	variantID := p.Variants[0].ID

	res, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup,
		cart.Item{ProductID: p.ID, VariantID: &variantID, Quantity: 2}))
	require.NoError(t, err)
	assert.Equal(t, 3, f.reload(t, p.ID).Variants[0].Stock)

	cancelled, err := f.orders.Cancel(f.ctx, res.OrderID, admin)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)
	assert.Equal(t, 5, f.reload(t, p.ID).Variants[0].Stock)

	order, err := f.orders.Get(f.ctx, res.OrderID.String())
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, order.Status)

	var in int64
	require.NoError(t, f.db.Model(&model.StockMovement{}).
		Where("type = ? AND reason = ?", model.MovementIn, model.ReasonCancel).Count(&in).Error)
	assert.Equal(t, int64(1), in)

	_, err = f.orders.Cancel(f.ctx, res.OrderID, admin)
	assert.ErrorIs(t, err, ErrOrderNotCancellable, "already cancelled")
}

func TestCancelShippedIsRejected(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Shipped", "60", 5)
	res, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(p, 1)))
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(f.ctx, res.OrderID, model.OrderProcessing, admin)
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(f.ctx, res.OrderID, model.OrderShipped, admin)
	require.NoError(t, err)

	_, err = f.orders.Cancel(f.ctx, res.OrderID, admin)
	assert.ErrorIs(t, err, ErrOrderNotCancellable)
	assert.Equal(t, 4, f.reload(t, p.ID).Stock)

	order, err := f.orders.Get(f.ctx, res.OrderID.String())
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, order.Status)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Flow", "60", 5)
	res, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(p, 1)))
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(f.ctx, res.OrderID, model.OrderDelivered, admin)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.orders.UpdateStatus(f.ctx, res.OrderID, "LOST", admin)
	assert.ErrorIs(t, err, ErrValidation)

	order, err := f.orders.UpdateStatus(f.ctx, res.OrderID, model.OrderCancelled, admin)
	require.NoError(t, err, "cancel through status update restores stock")
	assert.Equal(t, model.OrderCancelled, order.Status)
	assert.Equal(t, 5, f.reload(t, p.ID).Stock)

	_, err = f.orders.UpdateStatus(f.ctx, uuid.New(), model.OrderProcessing, admin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderNumberCollisionGivesUp(t *testing.T) {
	f := newFixture(t)
	svc := f.orders.(*orderService)
	svc.randN = func(int) int { return 7 }
	p := f.seedProduct(t, "Clash", "10", 5)

	first, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(p, 1)))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(first.OrderNumber, "-0007"))

	_, err = f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(p, 1)))
	assert.ErrorIs(t, err, ErrOrderNumberExhausted)
	assert.Equal(t, 4, f.reload(t, p.ID).Stock)
}

func TestListOrdersAndConfirmation(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Listed", "10", 10)
	var results []*CheckoutResult
	for i := 0; i < 3; i++ {
		res, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayMTNMobileMoney, line(p, 1)))
		require.NoError(t, err)
		results = append(results, res)
	}

	list, err := f.orders.List(f.ctx, model.OrderPending, 1, 2)
	require.NoError(t, err)
	assert.Len(t, list.Orders, 2)
	assert.Equal(t, 3, list.Pagination.Total)
	assert.Equal(t, 2, list.Pagination.TotalPages)

	empty, err := f.orders.List(f.ctx, model.OrderDelivered, 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty.Orders)
	assert.Empty(t, empty.Orders)

	conf, err := f.orders.Confirmation(f.ctx, results[0].OrderID)
	require.NoError(t, err)
	assert.Equal(t, results[0].OrderNumber, conf.OrderNumber)
	assert.Equal(t, model.PayMTNMobileMoney, conf.Instructions.Method)
	assert.Contains(t, strings.Join(conf.Instructions.Steps, "\n"), "670000000")
	assert.Contains(t, strings.Join(conf.Instructions.Steps, "\n"), results[0].OrderNumber)

	_, err = f.orders.Confirmation(f.ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentInstructionsCashOnPickup(t *testing.T) {
	d := PaymentDirectory{StoreAddress: "12 Market Street"}
	in := d.Instructions(&model.Order{
		OrderNumber:   "ORD-20250101-0001",
		PaymentMethod: model.PayCashOnPickup,
		Total:         decimal.RequireFromString("53.2"),
	})
	assert.Equal(t, "Pay cash on pickup", in.Title)
	assert.Contains(t, in.Steps[0], "12 Market Street")
	assert.Contains(t, in.Steps[1], "53.20")
}
