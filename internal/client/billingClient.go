package client

import (
	"billing-checkout/internal/config"
	"billing-checkout/internal/model"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var ErrEmptyResponse = errors.New("billing api returned no identifier")

type BillingClient interface {
	FindOrCreateCustomer(ctx context.Context, customer *model.Customer) (model.ID, error)
	CreateCustomerPaymentProfile(ctx context.Context, profile *model.PaymentProfile) (model.ID, error)
	FindOrCreateProduct(ctx context.Context, name, code string) (*model.BillingProduct, error)
	CreateSubscription(ctx context.Context, body *model.SubscriptionRequest) (*model.Subscription, error)
	CreateBill(ctx context.Context, body *model.BillRequest) (model.ID, error)
	// ApproveBill approves a bill waiting in review. Bills in any other
	// status are left alone.
	ApproveBill(ctx context.Context, billID model.ID) error
	GetBankSlipDownload(ctx context.Context, billID model.ID) (string, error)
}

// APIError is an error reported by the billing api.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("billing api error %d", e.StatusCode)
	}
	return strings.Join(e.Messages, "; ")
}

type billingClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
}

func NewBillingClient(billingCfg *config.Billing) BillingClient {
	return &billingClientImpl{
		httpClient: &http.Client{
			Timeout: billingCfg.Timeout,
		},
		baseApiURL: strings.TrimRight(billingCfg.BaseApiURL, "/"),
		apiKey:     billingCfg.ApiKey,
	}
}

func (c *billingClientImpl) FindOrCreateCustomer(ctx context.Context, customer *model.Customer) (model.ID, error) {
	query := "email=" + customer.Email
	if customer.RegistryCode != "" {
		query = "registry_code=" + customer.RegistryCode
	}

	var found struct {
		Customers []struct {
			ID model.ID `json:"id"`
		} `json:"customers"`
	}
	if err := c.do(ctx, http.MethodGet, "/customers?query="+url.QueryEscape(query), nil, &found); err != nil {
		return "", fmt.Errorf("search customer: %w", err)
	}
	if len(found.Customers) > 0 && found.Customers[0].ID != "" {
		return found.Customers[0].ID, nil
	}

	var created struct {
		Customer struct {
			ID model.ID `json:"id"`
		} `json:"customer"`
	}
	if err := c.do(ctx, http.MethodPost, "/customers", customer, &created); err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	if created.Customer.ID == "" {
		return "", ErrEmptyResponse
	}

	return created.Customer.ID, nil
}

func (c *billingClientImpl) CreateCustomerPaymentProfile(ctx context.Context, profile *model.PaymentProfile) (model.ID, error) {
	var res struct {
		PaymentProfile struct {
			ID model.ID `json:"id"`
		} `json:"payment_profile"`
	}
	if err := c.do(ctx, http.MethodPost, "/payment_profiles", profile, &res); err != nil {
		return "", fmt.Errorf("create payment profile: %w", err)
	}
	if res.PaymentProfile.ID == "" {
		return "", ErrEmptyResponse
	}

	return res.PaymentProfile.ID, nil
}

func (c *billingClientImpl) FindOrCreateProduct(ctx context.Context, name, code string) (*model.BillingProduct, error) {
	var found struct {
		Products []model.BillingProduct `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/products?query="+url.QueryEscape("code="+code), nil, &found); err != nil {
		return nil, fmt.Errorf("search product: %w", err)
	}
	if len(found.Products) > 0 && found.Products[0].ID != "" {
		return &found.Products[0], nil
	}

	payload := map[string]interface{}{
		"name":   name,
		"code":   code,
		"status": "active",
		"pricing_schema": map[string]interface{}{
			"price": 0,
		},
	}

	var created struct {
		Product model.BillingProduct `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, "/products", payload, &created); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if created.Product.ID == "" {
		return nil, ErrEmptyResponse
	}

	return &created.Product, nil
}

func (c *billingClientImpl) CreateSubscription(ctx context.Context, body *model.SubscriptionRequest) (*model.Subscription, error) {
	var res struct {
		Subscription model.Subscription `json:"subscription"`
		Bill         *model.Bill        `json:"bill"`
	}
	if err := c.do(ctx, http.MethodPost, "/subscriptions", body, &res); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	if res.Subscription.ID == "" {
		return nil, ErrEmptyResponse
	}

	sub := res.Subscription
	if res.Bill != nil {
		sub.Bill = res.Bill
	}

	return &sub, nil
}

func (c *billingClientImpl) CreateBill(ctx context.Context, body *model.BillRequest) (model.ID, error) {
	var res struct {
		Bill model.Bill `json:"bill"`
	}
	if err := c.do(ctx, http.MethodPost, "/bills", body, &res); err != nil {
		return "", fmt.Errorf("create bill: %w", err)
	}
	if res.Bill.ID == "" {
		return "", ErrEmptyResponse
	}

	return res.Bill.ID, nil
}

func (c *billingClientImpl) ApproveBill(ctx context.Context, billID model.ID) error {
	bill, err := c.getBill(ctx, billID)
	if err != nil {
		return err
	}
	if bill.Status != model.BillStatusReview {
		return nil
	}

	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/bills/%s/approve", url.PathEscape(billID.String())), nil, nil); err != nil {
		return fmt.Errorf("approve bill %s: %w", billID, err)
	}

	return nil
}

func (c *billingClientImpl) GetBankSlipDownload(ctx context.Context, billID model.ID) (string, error) {
	bill, err := c.getBill(ctx, billID)
	if err != nil {
		return "", err
	}
	if len(bill.Charges) == 0 || bill.Charges[0].PrintURL == "" {
		return "", fmt.Errorf("bill %s has no printable charge: %w", billID, ErrEmptyResponse)
	}

	return bill.Charges[0].PrintURL, nil
}

func (c *billingClientImpl) getBill(ctx context.Context, billID model.ID) (*model.Bill, error) {
	var res struct {
		Bill model.Bill `json:"bill"`
	}
	if err := c.do(ctx, http.MethodGet, "/bills/"+url.PathEscape(billID.String()), nil, &res); err != nil {
		return nil, fmt.Errorf("get bill %s: %w", billID, err)
	}

	return &res.Bill, nil
}

func (c *billingClientImpl) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode billing response: %w", err)
	}

	return nil
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var payload struct {
		Errors []struct {
			Parameter string `json:"parameter"`
			Message   string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Errors) == 0 {
		if text := strings.TrimSpace(string(body)); text != "" {
			apiErr.Messages = []string{text}
		}
		return apiErr
	}

	for _, e := range payload.Errors {
		msg := e.Message
		if e.Parameter != "" {
			msg = e.Parameter + ": " + msg
		}
		apiErr.Messages = append(apiErr.Messages, msg)
	}

	return apiErr
}
