package service

import "billing-checkout/internal/model"

type OrderType int

const (
	OrderTypeInvalid OrderType = iota
	OrderTypeSubscription
	OrderTypeSingle
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeSubscription:
		return "subscription"
	case OrderTypeSingle:
		return "single"
	default:
		return "invalid"
	}
}

// ClassifyOrder decides which payment pipeline an order takes. A subscription
// product can only be bought alone; an order without one is a single payment.
func ClassifyOrder(items []*model.OrderItem) OrderType {
	for _, item := range items {
		if item.Product == nil || !item.Product.IsSubscription() {
			continue
		}
		if len(items) == 1 {
			return OrderTypeSubscription
		}
		return OrderTypeInvalid
	}

	return OrderTypeSingle
}
