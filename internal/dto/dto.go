package dto

import (
	"billing-checkout/internal/model"

	"github.com/shopspring/decimal"
)

type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type PlaceOrderRequest struct {
	Billing        model.BillingProfile `json:"billing"`
	ShippingMethod string               `json:"shipping_method"`
	ShippingTotal  decimal.Decimal      `json:"shipping_total"`
	DiscountTotal  decimal.Decimal      `json:"discount_total"`
}

type OrderResponse struct {
	Order *model.Order       `json:"order"`
	Meta  []*model.OrderMeta `json:"meta"`
	Notes []*model.OrderNote `json:"notes"`
}

// CardForm holds the card fields submitted with a credit card checkout.
type CardForm struct {
	HolderName   string `json:"holder_name"`
	Number       string `json:"number"`
	CVV          string `json:"cvv"`
	ExpiryMonth  string `json:"expiry_month"`
	ExpiryYear   string `json:"expiry_year"`
	Installments *int   `json:"installments,omitempty"`
}

type CheckoutRequest struct {
	PaymentMethod string   `json:"payment_method"` // credit_card, bank_slip
	Card          CardForm `json:"card"`
}

type CheckoutResponse struct {
	Result   string   `json:"result"`
	Redirect string   `json:"redirect,omitempty"`
	Messages []string `json:"messages,omitempty"`
}
