package service

import "github.com/shopspring/decimal"

// Pricing holds the store's checkout rates.
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// DefaultPricing is 8% tax, free shipping over 100.00, else a 10.00 flat fee.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.08"),
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShippingFee:       decimal.NewFromInt(10),
	}
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Compute derives every order amount from the subtotal. Amounts are rounded
// to cents; total is summed from the rounded parts so it always equals
// subtotal + tax + shipping - discount.
func (p Pricing) Compute(subtotal decimal.Decimal) Totals {
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(p.TaxRate).Round(2)

	shipping := p.FlatShippingFee.Round(2)
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	discount := decimal.Zero

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal.Add(tax).Add(shipping).Sub(discount),
	}
}
