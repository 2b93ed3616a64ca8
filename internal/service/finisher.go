package service

import (
	"billing-checkout/internal/dto"
	"billing-checkout/internal/model"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Order metadata written after a successful charge.
const (
	metaCycle          = "billing_cycle"
	metaSubscriptionID = "billing_subscription_id"
	metaBillID         = "billing_bill_id"
	metaDownloadURL    = "billing_download_url"
)

const (
	statusAwaitingConfirmation = "Awaiting confirmation of the order by the billing service."
	statusAwaitingBankSlip     = "Awaiting bank slip payment for the order."
)

func (s *checkoutServiceImpl) addSubscriptionDownloadURL(ctx context.Context, co *Checkout, sub *model.Subscription) error {
	bill := sub.Bill
	if bill == nil {
		return nil
	}

	var downloadURL string
	switch {
	case bill.Status == model.BillStatusReview:
		downloadURL = s.approvedDownloadURL(ctx, co, bill.ID)
	case len(bill.Charges) > 0:
		downloadURL = bill.Charges[0].PrintURL
	}

	return s.storeDownloadURL(ctx, co, downloadURL)
}

func (s *checkoutServiceImpl) addBillDownloadURL(ctx context.Context, co *Checkout, billID model.ID) error {
	return s.storeDownloadURL(ctx, co, s.approvedDownloadURL(ctx, co, billID))
}

// approvedDownloadURL approves the bill and fetches its proof of charge. It
// returns "" when either step fails.
func (s *checkoutServiceImpl) approvedDownloadURL(ctx context.Context, co *Checkout, billID model.ID) string {
	if err := s.billing.ApproveBill(ctx, billID); err != nil {
		s.logger.Warn("approve bill", zap.Uint("order_id", co.Order.ID), zap.String("bill_id", billID.String()), zap.Error(err))
		return ""
	}

	downloadURL, err := s.billing.GetBankSlipDownload(ctx, billID)
	if err != nil {
		s.logger.Warn("get bill download url", zap.Uint("order_id", co.Order.ID), zap.String("bill_id", billID.String()), zap.Error(err))
		return ""
	}

	return downloadURL
}

func (s *checkoutServiceImpl) storeDownloadURL(ctx context.Context, co *Checkout, downloadURL string) error {
	if downloadURL == "" {
		return nil
	}
	if err := s.orderRepo.AddMeta(ctx, co.Order.ID, metaDownloadURL, downloadURL); err != nil {
		return fmt.Errorf("store download url: %w", err)
	}
	return nil
}

func (s *checkoutServiceImpl) finishPayment(ctx context.Context, co *Checkout) (*dto.CheckoutResponse, error) {
	if err := s.cartRepo.Clear(ctx, co.UserID); err != nil {
		return nil, fmt.Errorf("empty cart: %w", err)
	}

	statusMessage := statusAwaitingConfirmation
	if !co.Mode.IsCard() {
		statusMessage = statusAwaitingBankSlip
	}

	s.logger.Info(statusMessage, zap.Uint("order_id", co.Order.ID))
	if err := s.orderRepo.UpdateStatus(ctx, co.Order.ID, model.OrderStatusPending, statusMessage); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	return &dto.CheckoutResponse{
		Result:   "success",
		Redirect: s.orderReceivedURL(co.Order),
	}, nil
}

func (s *checkoutServiceImpl) orderReceivedURL(order *model.Order) string {
	return fmt.Sprintf("%s/checkout/order-received/%d?key=%s", s.serviceBaseUrl, order.ID, order.Key)
}
