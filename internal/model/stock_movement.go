package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

type MovementReason string

const (
	ReasonRestock    MovementReason = "RESTOCK"
	ReasonOrder      MovementReason = "ORDER"
	ReasonCancel     MovementReason = "CANCEL"
	ReasonAdjustment MovementReason = "ADJUSTMENT"
)

// StockMovement is the inventory ledger: every stock change writes one row
// in the same transaction as the change itself.
type StockMovement struct {
	BaseModel
	ProductID uuid.UUID      `gorm:"type:uuid;index;not null" json:"product_id"`
	VariantID *uuid.UUID     `gorm:"type:uuid" json:"variant_id,omitempty"`
	Type      MovementType   `gorm:"type:varchar(10);not null" json:"type"`
	Reason    MovementReason `gorm:"type:varchar(20);not null" json:"reason"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	OrderID   *uuid.UUID     `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Note      string         `gorm:"type:text" json:"note,omitempty"`
}
