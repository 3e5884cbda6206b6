package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderRefunded   OrderStatus = "REFUNDED"
)

// orderTransitions lists the forward moves an admin may make. Cancellation
// has its own path because it restores stock.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing},
	OrderProcessing: {OrderShipped},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {OrderRefunded},
}

// CanTransition reports whether an order may move from s to next via a status update.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether stock can still be released for the order.
func (s OrderStatus) Cancellable() bool {
	return s == OrderPending || s == OrderProcessing
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PayCashOnPickup   PaymentMethod = "CASH_ON_PICKUP"
	PayMTNMobileMoney PaymentMethod = "MTN_MOBILE_MONEY"
	PayOrangeMoney    PaymentMethod = "ORANGE_MONEY"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCashOnPickup, PayMTNMobileMoney, PayOrangeMoney:
		return true
	}
	return false
}

// Address is stored as a JSON column.
type Address struct {
	FullName   string `json:"full_name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

type Order struct {
	BaseModel
	OrderNumber   string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	UserID        *uuid.UUID    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	CustomerName  string        `gorm:"type:varchar(255)" json:"customer_name"`
	Email         string        `gorm:"type:varchar(255);index;not null" json:"email"`
	Phone         string        `gorm:"type:varchar(32)" json:"phone"`
	Status        OrderStatus   `gorm:"type:varchar(20);index;not null;default:'PENDING'" json:"status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(32);not null" json:"payment_method"`

	// Derived once at creation and never recomputed.
	Subtotal decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Shipping decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping"`
	Discount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`

	ShippingAddress Address `gorm:"serializer:json;type:text" json:"shipping_address"`
	BillingAddress  Address `gorm:"serializer:json;type:text" json:"billing_address"`
	Notes           string  `gorm:"type:text" json:"notes,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem snapshots price, name and SKU so history survives catalog edits.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"product_id"`
	VariantID   *uuid.UUID      `gorm:"type:uuid" json:"variant_id,omitempty"`
	ProductName string          `gorm:"type:varchar(255)" json:"product_name"`
	SKU         string          `gorm:"type:varchar(64)" json:"sku"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
}
