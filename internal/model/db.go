package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductType string

const (
	ProductTypeStandard     ProductType = "standard"
	ProductTypeSubscription ProductType = "subscription"
)

type PersonType string

const (
	PersonTypeIndividual PersonType = "individual"
	PersonTypeCompany    PersonType = "company"
)

const (
	OrderStatusPending = "pending"
	OrderStatusFailed  = "failed"
)

type Product struct {
	ID      string          `gorm:"primaryKey;size:64;not null" json:"id"` // product sku
	Title   string          `gorm:"size:191;not null" json:"title"`
	Type    ProductType     `gorm:"size:32;index;not null" json:"type"`
	Price   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	PlanRef string          `gorm:"size:64" json:"plan_ref,omitempty"` // billing plan, subscription products only
}

func (p *Product) IsSubscription() bool {
	return p.Type == ProductTypeSubscription
}

// BillingProfile is the payer data collected at checkout.
type BillingProfile struct {
	PersonType   PersonType `gorm:"size:16;not null" json:"person_type"`
	FirstName    string     `gorm:"size:128" json:"first_name"`
	LastName     string     `gorm:"size:128" json:"last_name"`
	Company      string     `gorm:"size:191" json:"company,omitempty"`
	Email        string     `gorm:"size:191;not null" json:"email"`
	CPF          string     `gorm:"size:32" json:"cpf,omitempty"`
	CNPJ         string     `gorm:"size:32" json:"cnpj,omitempty"`
	RG           string     `gorm:"size:32" json:"rg,omitempty"`
	IE           string     `gorm:"size:32" json:"ie,omitempty"`
	Address1     string     `gorm:"size:191" json:"address_1"`
	Number       string     `gorm:"size:32" json:"number"`
	Address2     string     `gorm:"size:191" json:"address_2,omitempty"`
	Postcode     string     `gorm:"size:16" json:"postcode"`
	Neighborhood string     `gorm:"size:128" json:"neighborhood"`
	City         string     `gorm:"size:128" json:"city"`
	State        string     `gorm:"size:8" json:"state"`
	Country      string     `gorm:"size:8" json:"country"`
}

func (b BillingProfile) FullName() string {
	return b.FirstName + " " + b.LastName
}

type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Key            string          `gorm:"size:64;uniqueIndex;not null" json:"key"`
	UserID         string          `gorm:"size:32;index;not null" json:"user_id"`
	Status         string          `gorm:"size:32;index;not null" json:"status"` // pending, failed
	Billing        BillingProfile  `gorm:"embedded;embeddedPrefix:billing_" json:"billing"`
	ShippingMethod string          `gorm:"size:128" json:"shipping_method,omitempty"`
	ShippingTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_total"`
	DiscountTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_total"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Items          []*OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// FK → order.id
	OrderID uint `gorm:"index;not null" json:"order_id"`
	// FK → product.id
	ProductID string          `gorm:"size:64;index;not null" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int32           `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`

	CreatedAt time.Time `json:"created_at"`
}

type OrderMeta struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	OrderID   uint      `gorm:"index;not null" json:"-"`
	Key       string    `gorm:"size:64;index;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderNote struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	OrderID   uint      `gorm:"index;not null" json:"-"`
	Note      string    `gorm:"type:text;not null" json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// RecurringOrder is the platform-side record of a subscription bought with an order.
type RecurringOrder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	UserID    string    `gorm:"size:32;index;not null" json:"user_id"`
	ProductID string    `gorm:"size:64;not null" json:"product_id"`
	Status    string    `gorm:"size:32;not null" json:"status"` // pending, active, cancelled
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	UserID    string    `gorm:"primaryKey;size:32" json:"user_id"`
	ProductID string    `gorm:"primaryKey;size:64;index;not null" json:"product_id"`
	Quantity  int32     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserMeta struct {
	UserID    string `gorm:"primaryKey;size:32;not null"`
	Key       string `gorm:"primaryKey;size:64;not null"`
	Value     string `gorm:"size:191;not null"`
	CreatedAt time.Time
}
