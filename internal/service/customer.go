package service

import (
	"billing-checkout/internal/dto"
	"billing-checkout/internal/model"
	"billing-checkout/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const customerCodeKey = "billing_customer_code"

// Customer metadata keys understood by the billing service's invoicing.
const (
	metaStateRegistration = "inscricao_estadual"
	metaIdentityDocument  = "carteira_de_identidade"
)

// customerCode returns the billing customer code of userID, generating and
// storing one on first use. A stored code is never replaced.
func (s *checkoutServiceImpl) customerCode(ctx context.Context, userID string) (string, error) {
	code, err := s.userMetaRepo.Get(ctx, userID, customerCodeKey)
	if err == nil && code != "" {
		return code, nil
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("get customer code: %w", err)
	}

	generated := fmt.Sprintf("wc-%s-%d", userID, s.now().Unix())
	code, err = s.userMetaRepo.AddUnique(ctx, userID, customerCodeKey, generated)
	if err != nil {
		return "", fmt.Errorf("store customer code: %w", err)
	}

	return code, nil
}

func buildCustomer(billing model.BillingProfile, code string, sendTaxDocuments bool) (*model.Customer, error) {
	customer := &model.Customer{
		Email: billing.Email,
		Code:  code,
		Address: model.Address{
			Street:            billing.Address1,
			Number:            billing.Number,
			AdditionalDetails: billing.Address2,
			Zipcode:           billing.Postcode,
			Neighborhood:      billing.Neighborhood,
			City:              billing.City,
			State:             billing.State,
			Country:           billing.Country,
		},
		Metadata: map[string]string{},
	}

	switch billing.PersonType {
	case model.PersonTypeCompany:
		customer.Name = billing.Company
		customer.RegistryCode = billing.CNPJ
		customer.Notes = fmt.Sprintf("Name: %s", billing.FullName())
		if sendTaxDocuments {
			customer.Metadata[metaStateRegistration] = billing.IE
		}
	case model.PersonTypeIndividual:
		customer.Name = billing.FullName()
		customer.RegistryCode = billing.CPF
		customer.Notes = ""
		if sendTaxDocuments {
			customer.Metadata[metaIdentityDocument] = billing.RG
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPersonType, billing.PersonType)
	}

	return customer, nil
}

func buildPaymentProfile(customerID model.ID, card dto.CardForm) *model.PaymentProfile {
	return &model.PaymentProfile{
		CustomerID:     customerID,
		HolderName:     card.HolderName,
		CardExpiration: card.ExpiryMonth + "/" + card.ExpiryYear,
		CardNumber:     card.Number,
		CardCVV:        card.CVV,
	}
}

// resolveCustomer finds or creates the paying customer at the billing service
// and, for card payments, registers the submitted card under it.
func (s *checkoutServiceImpl) resolveCustomer(ctx context.Context, co *Checkout) (model.ID, error) {
	code, err := s.customerCode(ctx, co.UserID)
	if err != nil {
		return "", s.abort(ctx, co, msgCustomerFailed, err)
	}

	customer, err := buildCustomer(co.Order.Billing, code, s.merchant.SendTaxDocuments)
	if err != nil {
		return "", s.abort(ctx, co, msgCustomerFailed, err)
	}

	customerID, err := s.billing.FindOrCreateCustomer(ctx, customer)
	if err != nil || customerID == "" {
		s.logger.Warn("billing customer not resolved",
			zap.Uint("order_id", co.Order.ID),
			zap.String("registry_code", customer.RegistryCode),
			zap.String("customer_code", customer.Code),
		)
		return "", s.abort(ctx, co, msgCustomerFailed, err)
	}

	s.logger.Info("billing customer resolved", zap.Uint("order_id", co.Order.ID), zap.String("customer_id", customerID.String()))

	if co.Mode.IsCard() {
		if err := s.registerPaymentProfile(ctx, co, customerID); err != nil {
			return "", err
		}
	}

	return customerID, nil
}

// registerPaymentProfile leaves the customer in place when it fails.
func (s *checkoutServiceImpl) registerPaymentProfile(ctx context.Context, co *Checkout, customerID model.ID) error {
	profileID, err := s.billing.CreateCustomerPaymentProfile(ctx, buildPaymentProfile(customerID, co.Card))
	if err != nil || profileID == "" {
		return s.abort(ctx, co, msgPaymentProfile, err)
	}

	return nil
}
