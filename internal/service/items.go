package service

import (
	"billing-checkout/internal/model"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderKind selects the billing payload shape: recurring product items or
// one-time bill items.
type OrderKind int

const (
	OrderKindBill OrderKind = iota
	OrderKindSubscription
)

func (k OrderKind) String() string {
	switch k {
	case OrderKindSubscription:
		return "subscription"
	case OrderKindBill:
		return "bill"
	default:
		return fmt.Sprintf("OrderKind(%d)", int(k))
	}
}

type lineType string

const (
	lineProduct  lineType = "product"
	lineShipping lineType = "shipping"
	lineDiscount lineType = "discount"
)

// billingLine is an order line bound to its billing-side product.
type billingLine struct {
	Type             lineType
	BillingProductID model.ID
	Price            decimal.Decimal
	Quantity         int32
}

// BillingItems holds the translated order. Only the slice matching Kind is set.
type BillingItems struct {
	Kind         OrderKind
	ProductItems []model.ProductItem
	BillItems    []model.BillItem
}

func (b *BillingItems) Len() int {
	return len(b.ProductItems) + len(b.BillItems)
}

// buildItems binds every order line, the shipping and the discount to a
// billing product and translates them into the payload for the order kind.
// Lines are charged at the unit price recorded when the order was placed.
func (s *checkoutServiceImpl) buildItems(ctx context.Context, co *Checkout) (*BillingItems, error) {
	order := co.Order
	kind := OrderKindBill
	lines := make([]billingLine, 0, len(order.Items)+2)

	for _, item := range order.Items {
		product := item.Product
		billingProduct, err := s.billing.FindOrCreateProduct(ctx, product.Title, Slugify(product.Title))
		if err != nil {
			return nil, s.abort(ctx, co, msgProductInfo, err)
		}

		if product.IsSubscription() {
			kind = OrderKindSubscription
		}

		lines = append(lines, billingLine{
			Type:             lineProduct,
			BillingProductID: billingProduct.ID,
			Price:            item.UnitPrice,
			Quantity:         item.Quantity,
		})
	}

	if method := order.ShippingMethod; method != "" {
		billingProduct, err := s.billing.FindOrCreateProduct(ctx, fmt.Sprintf("Shipping (%s)", method), Slugify(method))
		if err != nil {
			return nil, s.abort(ctx, co, msgProductInfo, err)
		}

		lines = append(lines, billingLine{
			Type:             lineShipping,
			BillingProductID: billingProduct.ID,
			Price:            order.ShippingTotal,
			Quantity:         1,
		})
	}

	discount := order.DiscountTotal
	if kind == OrderKindBill && !discount.IsZero() {
		billingProduct, err := s.billing.FindOrCreateProduct(ctx, s.merchant.DiscountProductTitle, s.merchant.DiscountProductCode)
		if err != nil {
			return nil, s.abort(ctx, co, msgProductInfo, err)
		}

		lines = append(lines, billingLine{
			Type:             lineDiscount,
			BillingProductID: billingProduct.ID,
			Price:            discount.Neg(),
			Quantity:         1,
		})
	}

	items, err := translateLines(kind, lines, discount)
	if err != nil {
		return nil, s.abort(ctx, co, msgProductInfo, err)
	}
	if items.Len() == 0 {
		return nil, s.abort(ctx, co, msgProductInfo, nil)
	}

	return items, nil
}

// translateLines builds the billing payload for kind. Subscriptions carry the
// order discount on their product items; bills repeat each line once per unit.
func translateLines(kind OrderKind, lines []billingLine, discount decimal.Decimal) (*BillingItems, error) {
	items := &BillingItems{Kind: kind}

	switch kind {
	case OrderKindSubscription:
		for _, line := range lines {
			item := model.ProductItem{
				ProductID: line.BillingProductID,
				Quantity:  line.Quantity,
				PricingSchema: model.PricingSchema{
					Price:      line.Price,
					SchemaType: "flat",
				},
			}
			if line.Type == lineProduct && !discount.IsZero() {
				item.Discounts = []model.Discount{{
					DiscountType: "amount",
					Amount:       discount,
				}}
			}
			items.ProductItems = append(items.ProductItems, item)
		}
	case OrderKindBill:
		for _, line := range lines {
			for i := int32(0); i < line.Quantity; i++ {
				items.BillItems = append(items.BillItems, model.BillItem{
					ProductID: line.BillingProductID,
					Amount:    line.Price,
				})
			}
		}
	default:
		return nil, fmt.Errorf("unknown order kind %s", kind)
	}

	return items, nil
}
