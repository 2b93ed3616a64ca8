package service

import (
	"billing-checkout/internal/config"
	"billing-checkout/internal/dto"
	"billing-checkout/internal/model"
	"billing-checkout/internal/repository"
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

// --- FAKES ---

type fakeBilling struct {
	calls []string

	customerID  model.ID
	customerErr error
	customers   []*model.Customer

	profileID  model.ID
	profileErr error
	profiles   []*model.PaymentProfile

	productErr   error
	productCodes []string
	productNames []string

	subscription     *model.Subscription
	subscriptionErr  error
	subscriptionReqs []*model.SubscriptionRequest

	billID   model.ID
	billErr  error
	billReqs []*model.BillRequest

	approveErr error
	approved   []model.ID

	downloadURL string
	downloadErr error
}

func (f *fakeBilling) FindOrCreateCustomer(ctx context.Context, customer *model.Customer) (model.ID, error) {
	f.calls = append(f.calls, "find_or_create_customer")
	f.customers = append(f.customers, customer)
	return f.customerID, f.customerErr
}

func (f *fakeBilling) CreateCustomerPaymentProfile(ctx context.Context, profile *model.PaymentProfile) (model.ID, error) {
	f.calls = append(f.calls, "create_payment_profile")
	f.profiles = append(f.profiles, profile)
	return f.profileID, f.profileErr
}

func (f *fakeBilling) FindOrCreateProduct(ctx context.Context, name, code string) (*model.BillingProduct, error) {
	f.calls = append(f.calls, "find_or_create_product")
	f.productNames = append(f.productNames, name)
	f.productCodes = append(f.productCodes, code)
	if f.productErr != nil {
		return nil, f.productErr
	}
	return &model.BillingProduct{ID: model.ID("prod-" + code), Name: name, Code: code}, nil
}

func (f *fakeBilling) CreateSubscription(ctx context.Context, body *model.SubscriptionRequest) (*model.Subscription, error) {
	f.calls = append(f.calls, "create_subscription")
	f.subscriptionReqs = append(f.subscriptionReqs, body)
	return f.subscription, f.subscriptionErr
}

func (f *fakeBilling) CreateBill(ctx context.Context, body *model.BillRequest) (model.ID, error) {
	f.calls = append(f.calls, "create_bill")
	f.billReqs = append(f.billReqs, body)
	return f.billID, f.billErr
}

func (f *fakeBilling) ApproveBill(ctx context.Context, billID model.ID) error {
	f.calls = append(f.calls, "approve_bill")
	f.approved = append(f.approved, billID)
	return f.approveErr
}

func (f *fakeBilling) GetBankSlipDownload(ctx context.Context, billID model.ID) (string, error) {
	f.calls = append(f.calls, "get_bank_slip_download")
	return f.downloadURL, f.downloadErr
}

type statusChange struct {
	Status string
	Note   string
}

type fakeOrderRepo struct {
	order    *model.Order
	meta     map[string]string
	notes    []string
	statuses []statusChange
	metaErr  error
}

func newFakeOrderRepo(order *model.Order) *fakeOrderRepo {
	return &fakeOrderRepo{order: order, meta: map[string]string{}}
}

func (f *fakeOrderRepo) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	f.order = order
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, orderID uint) (*model.Order, error) {
	if f.order == nil || f.order.ID != orderID {
		return nil, repository.ErrNotFound
	}
	return f.order, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID uint, status, note string) error {
	f.order.Status = status
	f.statuses = append(f.statuses, statusChange{Status: status, Note: note})
	if note != "" {
		f.notes = append(f.notes, note)
	}
	return nil
}

func (f *fakeOrderRepo) AddMeta(ctx context.Context, orderID uint, key, value string) error {
	if f.metaErr != nil {
		return f.metaErr
	}
	f.meta[key] = value
	return nil
}

func (f *fakeOrderRepo) GetMeta(ctx context.Context, orderID uint) ([]*model.OrderMeta, error) {
	var meta []*model.OrderMeta
	for k, v := range f.meta {
		meta = append(meta, &model.OrderMeta{OrderID: orderID, Key: k, Value: v})
	}
	return meta, nil
}

func (f *fakeOrderRepo) AddNote(ctx context.Context, orderID uint, note string) error {
	f.notes = append(f.notes, note)
	return nil
}

func (f *fakeOrderRepo) GetNotes(ctx context.Context, orderID uint) ([]*model.OrderNote, error) {
	var notes []*model.OrderNote
	for _, n := range f.notes {
		notes = append(notes, &model.OrderNote{OrderID: orderID, Note: n})
	}
	return notes, nil
}

type fakeCartRepo struct {
	items   map[string][]*model.CartItem
	cleared []string
}

func (f *fakeCartRepo) Upsert(ctx context.Context, item *model.CartItem) error {
	if f.items == nil {
		f.items = map[string][]*model.CartItem{}
	}
	f.items[item.UserID] = append(f.items[item.UserID], item)
	return nil
}

func (f *fakeCartRepo) Get(ctx context.Context, userID string) ([]*model.CartItem, error) {
	return f.items[userID], nil
}

func (f *fakeCartRepo) Clear(ctx context.Context, userID string) error {
	f.cleared = append(f.cleared, userID)
	delete(f.items, userID)
	return nil
}

type fakeUserMetaRepo struct {
	values map[string]string
	adds   int
	err    error
}

func (f *fakeUserMetaRepo) Get(ctx context.Context, userID, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.values[userID+"|"+key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

func (f *fakeUserMetaRepo) AddUnique(ctx context.Context, userID, key, value string) (string, error) {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.adds++
	if existing, ok := f.values[userID+"|"+key]; ok {
		return existing, nil
	}
	f.values[userID+"|"+key] = value
	return value, nil
}

type fakeRecurringOrderRepo struct {
	recurring *model.RecurringOrder
	created   []*model.RecurringOrder
}

func (f *fakeRecurringOrderRepo) Create(ctx context.Context, tx *gorm.DB, recurring *model.RecurringOrder) error {
	f.created = append(f.created, recurring)
	return nil
}

func (f *fakeRecurringOrderRepo) LatestForOrder(ctx context.Context, orderID uint) (*model.RecurringOrder, error) {
	if f.recurring == nil || f.recurring.OrderID != orderID {
		return nil, repository.ErrNotFound
	}
	return f.recurring, nil
}

// --- FIXTURES ---

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *checkoutServiceImpl
	billing   *fakeBilling
	orders    *fakeOrderRepo
	cart      *fakeCartRepo
	userMeta  *fakeUserMetaRepo
	recurring *fakeRecurringOrderRepo
	notices   *NoticeList
	logs      *observer.ObservedLogs
}

func newFixture(order *model.Order) *fixture {
	core, logs := observer.New(zap.DebugLevel)
	f := &fixture{
		billing: &fakeBilling{
			customerID:  "cus-1",
			profileID:   "pp-1",
			billID:      "bill-1",
			downloadURL: "https://billing.test/bills/bill-1/print",
		},
		orders:    newFakeOrderRepo(order),
		cart:      &fakeCartRepo{},
		userMeta:  &fakeUserMetaRepo{},
		recurring: &fakeRecurringOrderRepo{},
		notices:   &NoticeList{},
		logs:      logs,
	}

	f.svc = NewCheckoutService(
		f.billing,
		f.orders,
		f.cart,
		f.userMeta,
		f.recurring,
		config.Merchant{
			SendTaxDocuments:     false,
			DiscountProductTitle: "Discount coupon",
			DiscountProductCode:  "wc-discount",
		},
		"https://shop.test",
		zap.New(core),
	).(*checkoutServiceImpl)
	f.svc.now = func() time.Time { return testNow }

	return f
}

func (f *fixture) checkout(mode PaymentMode) *Checkout {
	return &Checkout{
		Order:   f.orders.order,
		UserID:  f.orders.order.UserID,
		Mode:    mode,
		Card:    testCard(),
		Notices: f.notices,
	}
}

func testCard() dto.CardForm {
	return dto.CardForm{
		HolderName:  "Maria Silva",
		Number:      "4111111111111111",
		CVV:         "123",
		ExpiryMonth: "09",
		ExpiryYear:  "2030",
	}
}

func standardProduct(id, title, price string) *model.Product {
	return &model.Product{ID: id, Title: title, Type: model.ProductTypeStandard, Price: decimal.RequireFromString(price)}
}

func subscriptionProduct(id, title, price, plan string) *model.Product {
	return &model.Product{ID: id, Title: title, Type: model.ProductTypeSubscription, Price: decimal.RequireFromString(price), PlanRef: plan}
}

func line(product *model.Product, quantity int32) *model.OrderItem {
	return &model.OrderItem{ProductID: product.ID, Product: product, Quantity: quantity, UnitPrice: product.Price}
}

func newOrder(items ...*model.OrderItem) *model.Order {
	return &model.Order{
		ID:     7,
		Key:    "key-7",
		UserID: "42",
		Status: model.OrderStatusPending,
		Billing: model.BillingProfile{
			PersonType: model.PersonTypeIndividual,
			FirstName:  "Maria",
			LastName:   "Silva",
			Email:      "maria@example.com",
			CPF:        "123.456.789-09",
			RG:         "12.345.678-9",
			Address1:   "Rua das Flores",
			Number:     "100",
			Postcode:   "01000-000",
			City:       "São Paulo",
			State:      "SP",
			Country:    "BR",
		},
		ShippingTotal: decimal.Zero,
		DiscountTotal: decimal.Zero,
		Items:         items,
	}
}
