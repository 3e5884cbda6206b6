// Package cart models the shopper's basket as it arrives at checkout.
// Carts live in the browser; the server only sees them as a payload.
package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the units of one product or variant in a single order.
const MaxLineQuantity = 1000

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrQuantityTooLarge = fmt.Errorf("quantity exceeds %d units per line", MaxLineQuantity)
)

// VariantDescriptor selects a variant by its attributes when no id is sent.
type VariantDescriptor struct {
	Color   string `json:"color,omitempty"`
	Length  string `json:"length,omitempty"`
	Density string `json:"density,omitempty"`
}

func (d VariantDescriptor) IsZero() bool {
	return d.Color == "" && d.Length == "" && d.Density == ""
}

func (d VariantDescriptor) key() string {
	return strings.ToLower(strings.Join([]string{d.Color, d.Length, d.Density}, "|"))
}

// Item is a cart line. Price and Name are display values from the client;
// checkout re-prices every line from the catalog.
type Item struct {
	ID        string            `json:"id,omitempty"`
	ProductID uuid.UUID         `json:"productId"`
	VariantID *uuid.UUID        `json:"variantId,omitempty"`
	Name      string            `json:"name,omitempty"`
	Price     decimal.Decimal   `json:"price"`
	Image     string            `json:"image,omitempty"`
	Quantity  int               `json:"quantity"`
	Variant   VariantDescriptor `json:"variant"`
}

// Key identifies the purchasable unit of a line: product plus variant.
func (i Item) Key() string {
	if i.VariantID != nil {
		return i.ProductID.String() + "#" + i.VariantID.String()
	}
	return i.ProductID.String() + "#" + i.Variant.key()
}

// LineTotal is Price × Quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart keeps lines in insertion order.
type Cart struct {
	lines []Item
}

func New(items ...Item) (*Cart, error) {
	c := &Cart{}
	for _, it := range items {
		if err := c.Add(it); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends a line or bumps the quantity of the line with the same Key.
func (c *Cart) Add(item Item) error {
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: product %s", ErrInvalidQuantity, item.ProductID)
	}
	if item.Quantity > MaxLineQuantity {
		return fmt.Errorf("%w: product %s", ErrQuantityTooLarge, item.ProductID)
	}
	key := item.Key()
	for i := range c.lines {
		if c.lines[i].Key() == key {
			if c.lines[i].Quantity > MaxLineQuantity-item.Quantity {
				return fmt.Errorf("%w: product %s", ErrQuantityTooLarge, item.ProductID)
			}
			c.lines[i].Quantity += item.Quantity
			return nil
		}
	}
	if item.ID == "" {
		item.ID = key
	}
	c.lines = append(c.lines, item)
	return nil
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []Item {
	out := make([]Item, len(c.lines))
	copy(out, c.lines)
	return out
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal sums the client-side line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// Normalize merges duplicate lines of a checkout payload and rejects empty
// carts and out-of-range quantities.
func Normalize(items []Item) (*Cart, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	return New(items...)
}
