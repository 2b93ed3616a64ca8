package server

import (
	"billing-checkout/internal/dto"
	"billing-checkout/internal/model"
	"billing-checkout/internal/repository"
	"billing-checkout/internal/service"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type stubCartService struct {
	added []string
}

func (s *stubCartService) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return []*model.Product{{ID: "grinder", Title: "Burr Grinder"}}, nil
}

func (s *stubCartService) AddItem(ctx context.Context, userID, productID string, quantity int32) error {
	if quantity <= 0 {
		return service.ErrInvalidQuantity
	}
	s.added = append(s.added, userID+":"+productID)
	return nil
}

func (s *stubCartService) GetCart(ctx context.Context, userID string) ([]*model.CartItem, error) {
	return nil, nil
}

type stubOrderService struct{}

func (s *stubOrderService) PlaceOrder(ctx context.Context, userID string, req *dto.PlaceOrderRequest) (*model.Order, error) {
	return &model.Order{ID: 7, UserID: userID, Status: model.OrderStatusPending}, nil
}

func (s *stubOrderService) GetOrder(ctx context.Context, userID string, orderID uint) (*dto.OrderResponse, error) {
	if orderID != 7 {
		return nil, fmt.Errorf("find order %d: %w", orderID, repository.ErrNotFound)
	}
	return &dto.OrderResponse{Order: &model.Order{ID: 7, UserID: userID}}, nil
}

// stubCheckoutService fails every payment attempt the way the real pipeline
// does when the billing service rejects the charge.
type stubCheckoutService struct {
	abort bool
	err   error
}

func (s *stubCheckoutService) Checkout(ctx context.Context, userID string, orderID uint, req *dto.CheckoutRequest, notices service.NoticeSink) (*dto.CheckoutResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.abort {
		notices.AddError("Payment failed. (card declined)")
		return nil, &service.AbortError{Message: "Payment failed. (card declined)"}
	}
	return &dto.CheckoutResponse{Result: "success", Redirect: "https://shop.test/checkout/order-received/7?key=k"}, nil
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func serve(s *Server, method, path, body, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestServer_PublicRoutes(t *testing.T) {
	s := NewServer(&stubCartService{}, &stubOrderService{}, &stubCheckoutService{}, testSecret, zap.NewNop())

	rec := serve(s, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = serve(s, http.MethodGet, "/api/products", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "grinder")
}

func TestServer_AuthRequired(t *testing.T) {
	s := NewServer(&stubCartService{}, &stubOrderService{}, &stubCheckoutService{}, testSecret, zap.NewNop())

	rec := serve(s, http.MethodGet, "/api/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_AddCartItem(t *testing.T) {
	cart := &stubCartService{}
	s := NewServer(cart, &stubOrderService{}, &stubCheckoutService{}, testSecret, zap.NewNop())

	rec := serve(s, http.MethodPost, "/api/cart/items", `{"product_id":"grinder","quantity":1}`, bearer(t, "42"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"42:grinder"}, cart.added)

	rec = serve(s, http.MethodPost, "/api/cart/items", `{"product_id":"grinder","quantity":0}`, bearer(t, "42"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Orders(t *testing.T) {
	s := NewServer(&stubCartService{}, &stubOrderService{}, &stubCheckoutService{}, testSecret, zap.NewNop())

	rec := serve(s, http.MethodPost, "/api/orders", `{"billing":{"person_type":"individual"}}`, bearer(t, "42"))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(s, http.MethodGet, "/api/orders/7", "", bearer(t, "42"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, http.MethodGet, "/api/orders/8", "", bearer(t, "42"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(s, http.MethodGet, "/api/orders/abc", "", bearer(t, "42"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Checkout(t *testing.T) {
	tests := []struct {
		name       string
		checkout   *stubCheckoutService
		wantStatus int
		wantResult string
	}{
		{name: "paid", checkout: &stubCheckoutService{}, wantStatus: http.StatusOK, wantResult: "success"},
		{name: "aborted", checkout: &stubCheckoutService{abort: true}, wantStatus: http.StatusUnprocessableEntity, wantResult: "failure"},
		{name: "not payable", checkout: &stubCheckoutService{err: service.ErrOrderNotPayable}, wantStatus: http.StatusConflict},
		{name: "bad payment method", checkout: &stubCheckoutService{err: service.ErrInvalidPaymentMethod}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(&stubCartService{}, &stubOrderService{}, tt.checkout, testSecret, zap.NewNop())

			rec := serve(s, http.MethodPost, "/api/orders/7/checkout", `{"payment_method":"credit_card"}`, bearer(t, "42"))
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantResult == "" {
				return
			}
			var resp dto.CheckoutResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantResult, resp.Result)
			if tt.wantResult == "failure" {
				assert.Equal(t, []string{"Payment failed. (card declined)"}, resp.Messages)
			}
		})
	}
}
