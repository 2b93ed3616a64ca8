package model

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Payloads exchanged with the billing service.

// ID is an identifier assigned by the billing service. The API sends numbers,
// ID accepts both numbers and strings.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

type Address struct {
	Street            string `json:"street"`
	Number            string `json:"number"`
	AdditionalDetails string `json:"additional_details"`
	Zipcode           string `json:"zipcode"`
	Neighborhood      string `json:"neighborhood"`
	City              string `json:"city"`
	State             string `json:"state"`
	Country           string `json:"country"`
}

type Customer struct {
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	RegistryCode string            `json:"registry_code"`
	Code         string            `json:"code"`
	Address      Address           `json:"address"`
	Notes        string            `json:"notes"`
	Metadata     map[string]string `json:"metadata"`
}

type PaymentProfile struct {
	CustomerID     ID     `json:"customer_id"`
	HolderName     string `json:"holder_name"`
	CardExpiration string `json:"card_expiration"` // MM/YYYY
	CardNumber     string `json:"card_number"`
	CardCVV        string `json:"card_cvv"`
}

type PricingSchema struct {
	Price      decimal.Decimal `json:"price"`
	SchemaType string          `json:"schema_type"`
}

type Discount struct {
	DiscountType string          `json:"discount_type"`
	Amount       decimal.Decimal `json:"amount"`
}

// ProductItem is a recurring line item of a subscription.
type ProductItem struct {
	ProductID     ID            `json:"product_id"`
	Quantity      int32         `json:"quantity"`
	PricingSchema PricingSchema `json:"pricing_schema"`
	Discounts     []Discount    `json:"discounts,omitempty"`
}

// BillItem is a single-unit charge of a one-time bill.
type BillItem struct {
	ProductID ID              `json:"product_id"`
	Amount    decimal.Decimal `json:"amount"`
}

type SubscriptionRequest struct {
	CustomerID        ID            `json:"customer_id"`
	PaymentMethodCode string        `json:"payment_method_code"`
	PlanID            string        `json:"plan_id"`
	ProductItems      []ProductItem `json:"product_items"`
	Code              string        `json:"code"`
}

type BillRequest struct {
	CustomerID        ID         `json:"customer_id"`
	PaymentMethodCode string     `json:"payment_method_code"`
	BillItems         []BillItem `json:"bill_items"`
	Code              string     `json:"code"`
	Installments      *int       `json:"installments,omitempty"`
}

type BillingProduct struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type CurrentPeriod struct {
	ID    ID  `json:"id"`
	Cycle int `json:"cycle"`
}

type Charge struct {
	ID       ID     `json:"id"`
	Status   string `json:"status"`
	PrintURL string `json:"print_url"`
}

const BillStatusReview = "review"

type Bill struct {
	ID           ID       `json:"id"`
	Status       string   `json:"status"`
	Charges      []Charge `json:"charges"`
	Installments int      `json:"installments,omitempty"`
}

type Subscription struct {
	ID            ID            `json:"id"`
	PlanID        ID            `json:"plan_id"`
	CurrentPeriod CurrentPeriod `json:"current_period"`
	Bill          *Bill         `json:"bill,omitempty"`
}
