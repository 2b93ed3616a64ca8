package service

import (
	"billing-checkout/internal/client"
	"errors"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrProductNotFound      = errors.New("some products not found")
	ErrInvalidQuantity      = errors.New("item quantity out of range")
	ErrInvalidPersonType    = errors.New("invalid person type")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrOrderNotOwned        = errors.New("order belongs to another user")
	ErrOrderNotPayable      = errors.New("order is not awaiting payment")
)

// Messages shown to the shopper and recorded on the order.
const (
	msgInvalidCart         = "Could not process the shopping cart. Check the chosen items and try again."
	msgNotSubscription     = "The selected product is not a subscription."
	msgNoRecurringOrder    = "Could not find the recurring order for this purchase."
	msgCustomerFailed      = "Could not register the customer. Check your details and try again."
	msgPaymentProfile      = "Could not register the payment method. Check your details and try again."
	msgProductInfo         = "Could not retrieve product information from the billing service. Check your details and try again."
	msgPaymentFailedFormat = "Payment failed. (%s)"
)

// AbortError stops a checkout. Its message has already been logged, noted on
// the order and shown to the shopper.
type AbortError struct {
	Message string
	Err     error
}

func (e *AbortError) Error() string {
	return e.Message
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// lastError extracts what the billing api reported about a failed call.
func lastError(err error) string {
	if err == nil {
		return "no identifier returned"
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
