package service

import (
	"testing"

	"go-wigstore-api/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	a := f.seedProduct(t, "Big", "100", 10)
	f.seedProduct(t, "Low", "20", 2)

	_, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(a, 2)))
	require.NoError(t, err)
	cancelled, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(a, 1)))
	require.NoError(t, err)
	_, err = f.orders.Cancel(f.ctx, cancelled.OrderID, admin)
	require.NoError(t, err)

	stats, err := f.dashboard.GetDashboardStats(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStockCount)
	// 100*8 + 20*2
	assert.True(t, stats.TotalValuation.Equal(decimal.NewFromInt(840)), stats.TotalValuation.String())
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	// 200 + 16 tax, free shipping
	assert.True(t, stats.Revenue.Equal(decimal.NewFromInt(216)), stats.Revenue.String())
}

func TestDashboardStockMovementChart(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Moving", "10", 10)
	_, err := f.orders.Checkout(f.ctx, checkoutRequest(model.PayCashOnPickup, line(p, 3)))
	require.NoError(t, err)
	_, err = f.inventory.Adjust(f.ctx, &AdjustmentRequest{ProductID: p.ID, Type: model.MovementIn, Quantity: 4}, admin)
	require.NoError(t, err)

	days, err := f.dashboard.GetStockMovement(f.ctx, 7)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 4, days[0].Inbound)
	assert.Equal(t, 3, days[0].Outbound)
}
