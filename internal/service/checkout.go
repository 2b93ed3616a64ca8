package service

import (
	"billing-checkout/internal/client"
	"billing-checkout/internal/config"
	"billing-checkout/internal/dto"
	"billing-checkout/internal/model"
	"billing-checkout/internal/repository"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type PaymentMode string

const (
	PaymentModeCreditCard PaymentMode = "credit_card"
	PaymentModeBankSlip   PaymentMode = "bank_slip"
)

func ParsePaymentMode(s string) (PaymentMode, error) {
	switch PaymentMode(s) {
	case PaymentModeCreditCard, PaymentModeBankSlip:
		return PaymentMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
}

func (m PaymentMode) IsCard() bool {
	return m == PaymentModeCreditCard
}

// MethodCode is the billing service payment method for the mode. Every
// non-card mode is charged as a bank slip.
func (m PaymentMode) MethodCode() string {
	if m.IsCard() {
		return "credit_card"
	}
	return "bank_slip"
}

// Checkout is everything a single payment attempt works on. It is built once
// per request and passed down explicitly.
type Checkout struct {
	Order   *model.Order
	UserID  string
	Mode    PaymentMode
	Card    dto.CardForm
	Notices NoticeSink
}

type CheckoutService interface {
	Checkout(ctx context.Context, userID string, orderID uint, req *dto.CheckoutRequest, notices NoticeSink) (*dto.CheckoutResponse, error)
}

type checkoutServiceImpl struct {
	billing            client.BillingClient
	orderRepo          repository.OrderRepository
	cartRepo           repository.CartRepository
	userMetaRepo       repository.UserMetaRepository
	recurringOrderRepo repository.RecurringOrderRepository
	merchant           config.Merchant
	serviceBaseUrl     string
	logger             *zap.Logger
	now                func() time.Time
}

func NewCheckoutService(
	billing client.BillingClient,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	userMetaRepo repository.UserMetaRepository,
	recurringOrderRepo repository.RecurringOrderRepository,
	merchant config.Merchant,
	serviceBaseUrl string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		billing:            billing,
		orderRepo:          orderRepo,
		cartRepo:           cartRepo,
		userMetaRepo:       userMetaRepo,
		recurringOrderRepo: recurringOrderRepo,
		merchant:           merchant,
		serviceBaseUrl:     serviceBaseUrl,
		logger:             logger,
		now:                time.Now,
	}
}

// Checkout charges an order placed by userID. An order that already holds a
// bill or a subscription is not payable again. Retrying a failed checkout is
// not idempotent: the billing service may end up with a second charge.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, userID string, orderID uint, req *dto.CheckoutRequest, notices NoticeSink) (*dto.CheckoutResponse, error) {
	mode, err := ParsePaymentMode(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", orderID, err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotOwned
	}
	if order.Status != model.OrderStatusPending && order.Status != model.OrderStatusFailed {
		return nil, ErrOrderNotPayable
	}
	charged, err := s.alreadyCharged(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if charged {
		return nil, ErrOrderNotPayable
	}

	return s.process(ctx, &Checkout{
		Order:   order,
		UserID:  userID,
		Mode:    mode,
		Card:    req.Card,
		Notices: notices,
	})
}

// alreadyCharged reports whether a previous checkout of the order got a bill
// or a subscription from the billing service.
func (s *checkoutServiceImpl) alreadyCharged(ctx context.Context, orderID uint) (bool, error) {
	meta, err := s.orderRepo.GetMeta(ctx, orderID)
	if err != nil {
		return false, fmt.Errorf("get order meta: %w", err)
	}
	for _, m := range meta {
		if (m.Key == metaBillID || m.Key == metaSubscriptionID) && m.Value != "" {
			return true, nil
		}
	}
	return false, nil
}

func (s *checkoutServiceImpl) process(ctx context.Context, co *Checkout) (*dto.CheckoutResponse, error) {
	for _, item := range co.Order.Items {
		if item.Product == nil {
			return nil, s.abort(ctx, co, msgInvalidCart, fmt.Errorf("product %s: %w", item.ProductID, ErrProductNotFound))
		}
		if !validQuantity(item.Quantity) {
			return nil, s.abort(ctx, co, msgInvalidCart, fmt.Errorf("product %s quantity %d: %w", item.ProductID, item.Quantity, ErrInvalidQuantity))
		}
	}

	switch orderType := ClassifyOrder(co.Order.Items); orderType {
	case OrderTypeSingle:
		return s.processSinglePayment(ctx, co)
	case OrderTypeSubscription:
		return s.processSubscription(ctx, co)
	default:
		return nil, s.abort(ctx, co, msgInvalidCart, nil)
	}
}

func (s *checkoutServiceImpl) processSubscription(ctx context.Context, co *Checkout) (*dto.CheckoutResponse, error) {
	customerID, err := s.resolveCustomer(ctx, co)
	if err != nil {
		return nil, err
	}

	sub, err := s.createSubscription(ctx, co, customerID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.AddMeta(ctx, co.Order.ID, metaCycle, fmt.Sprint(sub.CurrentPeriod.Cycle)); err != nil {
		return nil, fmt.Errorf("store billing cycle: %w", err)
	}
	if err := s.orderRepo.AddMeta(ctx, co.Order.ID, metaSubscriptionID, sub.ID.String()); err != nil {
		return nil, fmt.Errorf("store subscription id: %w", err)
	}
	if err := s.addSubscriptionDownloadURL(ctx, co, sub); err != nil {
		return nil, err
	}

	return s.finishPayment(ctx, co)
}

func (s *checkoutServiceImpl) processSinglePayment(ctx context.Context, co *Checkout) (*dto.CheckoutResponse, error) {
	customerID, err := s.resolveCustomer(ctx, co)
	if err != nil {
		return nil, err
	}

	billID, err := s.createBill(ctx, co, customerID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.AddMeta(ctx, co.Order.ID, metaBillID, billID.String()); err != nil {
		return nil, fmt.Errorf("store bill id: %w", err)
	}
	if err := s.addBillDownloadURL(ctx, co, billID); err != nil {
		return nil, err
	}

	return s.finishPayment(ctx, co)
}

// abort records message on every channel the shopper or the merchant looks at
// and returns the error that halts the checkout.
func (s *checkoutServiceImpl) abort(ctx context.Context, co *Checkout, message string, cause error) error {
	s.logger.Error(message, zap.Uint("order_id", co.Order.ID), zap.Error(cause))

	if err := s.orderRepo.AddNote(ctx, co.Order.ID, message); err != nil {
		s.logger.Warn("add order note", zap.Uint("order_id", co.Order.ID), zap.Error(err))
	}
	co.Notices.AddError(message)

	return &AbortError{Message: message, Err: cause}
}
