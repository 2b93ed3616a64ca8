package service

import (
	"billing-checkout/internal/model"
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// resolvePlan returns the billing plan of the subscription being bought.
// Orders holding a subscription have exactly one line (see ClassifyOrder), so
// the plan is read from that line.
func (s *checkoutServiceImpl) resolvePlan(ctx context.Context, co *Checkout) (string, error) {
	if len(co.Order.Items) != 1 {
		return "", s.abort(ctx, co, msgNotSubscription, fmt.Errorf("subscription order has %d lines", len(co.Order.Items)))
	}

	product := co.Order.Items[0].Product
	if product == nil || !product.IsSubscription() || product.PlanRef == "" {
		return "", s.abort(ctx, co, msgNotSubscription, nil)
	}

	return product.PlanRef, nil
}

func (s *checkoutServiceImpl) createSubscription(ctx context.Context, co *Checkout, customerID model.ID) (*model.Subscription, error) {
	plan, err := s.resolvePlan(ctx, co)
	if err != nil {
		return nil, err
	}

	recurring, err := s.recurringOrderRepo.LatestForOrder(ctx, co.Order.ID)
	if err != nil {
		return nil, s.abort(ctx, co, msgNoRecurringOrder, err)
	}

	items, err := s.buildItems(ctx, co)
	if err != nil {
		return nil, err
	}

	body := &model.SubscriptionRequest{
		CustomerID:        customerID,
		PaymentMethodCode: co.Mode.MethodCode(),
		PlanID:            plan,
		ProductItems:      items.ProductItems,
		Code:              strconv.FormatUint(uint64(recurring.ID), 10),
	}

	sub, err := s.billing.CreateSubscription(ctx, body)
	if err != nil || sub == nil || sub.ID == "" {
		return nil, s.failCharge(ctx, co, err)
	}

	return sub, nil
}

func (s *checkoutServiceImpl) createBill(ctx context.Context, co *Checkout, customerID model.ID) (model.ID, error) {
	items, err := s.buildItems(ctx, co)
	if err != nil {
		return "", err
	}

	body := &model.BillRequest{
		CustomerID:        customerID,
		PaymentMethodCode: co.Mode.MethodCode(),
		BillItems:         items.BillItems,
		Code:              strconv.FormatUint(uint64(co.Order.ID), 10),
	}
	if co.Mode.IsCard() && co.Card.Installments != nil {
		installments := *co.Card.Installments
		body.Installments = &installments
	}

	billID, err := s.billing.CreateBill(ctx, body)
	if err != nil || billID == "" {
		return "", s.failCharge(ctx, co, err)
	}

	return billID, nil
}

// failCharge marks the order failed after the billing service rejected the
// charge. The shopper has to submit the checkout again.
func (s *checkoutServiceImpl) failCharge(ctx context.Context, co *Checkout, cause error) error {
	s.logger.Error("order payment failed", zap.Uint("order_id", co.Order.ID), zap.Error(cause))

	message := fmt.Sprintf(msgPaymentFailedFormat, lastError(cause))
	if err := s.orderRepo.UpdateStatus(ctx, co.Order.ID, model.OrderStatusFailed, message); err != nil {
		s.logger.Warn("mark order failed", zap.Uint("order_id", co.Order.ID), zap.Error(err))
	}
	co.Notices.AddError(message)

	return &AbortError{Message: message, Err: cause}
}
