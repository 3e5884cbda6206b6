package service

import (
	"context"
	"fmt"

	"go-wigstore-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentDirectory holds the store details quoted in payment instructions.
type PaymentDirectory struct {
	StoreAddress       string
	MTNMerchantNumber  string
	OrangeMerchantCode string
}

type PaymentInstructions struct {
	Method model.PaymentMethod `json:"method"`
	Title  string              `json:"title"`
	Steps  []string            `json:"steps"`
}

// Confirmation is what the order confirmation page renders. It is served
// without auth and carries no customer contact details.
type Confirmation struct {
	OrderNumber  string              `json:"orderNumber"`
	Status       model.OrderStatus   `json:"status"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	Tax          decimal.Decimal     `json:"tax"`
	Shipping     decimal.Decimal     `json:"shipping"`
	Total        decimal.Decimal     `json:"total"`
	Items        []model.OrderItem   `json:"items"`
	Instructions PaymentInstructions `json:"instructions"`
}

// Instructions is static copy; no payment provider is contacted.
func (d PaymentDirectory) Instructions(o *model.Order) PaymentInstructions {
	amount := o.Total.StringFixed(2)
	switch o.PaymentMethod {
	case model.PayMTNMobileMoney:
		return PaymentInstructions{
			Method: o.PaymentMethod,
			Title:  "Pay with MTN Mobile Money",
			Steps: []string{
				"Dial *126# on the phone registered with MTN Mobile Money",
				fmt.Sprintf("Send %s to merchant number %s", amount, orUnset(d.MTNMerchantNumber)),
				fmt.Sprintf("Use %s as the payment reference", o.OrderNumber),
				"We start processing your order once the payment is confirmed",
			},
		}
	case model.PayOrangeMoney:
		return PaymentInstructions{
			Method: o.PaymentMethod,
			Title:  "Pay with Orange Money",
			Steps: []string{
				"Dial #150# on the phone registered with Orange Money",
				fmt.Sprintf("Pay %s to merchant code %s", amount, orUnset(d.OrangeMerchantCode)),
				fmt.Sprintf("Use %s as the payment reference", o.OrderNumber),
				"We start processing your order once the payment is confirmed",
			},
		}
	default:
		return PaymentInstructions{
			Method: model.PayCashOnPickup,
			Title:  "Pay cash on pickup",
			Steps: []string{
				fmt.Sprintf("Bring your order number %s to %s", o.OrderNumber, d.StoreAddress),
				fmt.Sprintf("Pay %s in cash when you collect your order", amount),
			},
		}
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(ask the store)"
	}
	return s
}

func (s *orderService) Confirmation(ctx context.Context, id uuid.UUID) (*Confirmation, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Confirmation{
		OrderNumber:  order.OrderNumber,
		Status:       order.Status,
		Subtotal:     order.Subtotal,
		Tax:          order.Tax,
		Shipping:     order.Shipping,
		Total:        order.Total,
		Items:        order.Items,
		Instructions: s.payments.Instructions(order),
	}, nil
}
