package handler

import (
	"billing-checkout/internal/dto"
	"billing-checkout/internal/middleware"
	"billing-checkout/internal/service"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService    service.OrderService
	checkoutService service.CheckoutService
}

func NewOrderHandler(orderService service.OrderService, checkoutService service.CheckoutService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		checkoutService: checkoutService,
	}
}

func orderIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return uint(id), nil
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	order, err := h.orderService.PlaceOrder(ctx, middleware.UserID(c), &req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	result, err := h.orderService.GetOrder(ctx, middleware.UserID(c), orderID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// Checkout pays an order. Aborted checkouts answer 422 with the messages
// meant for the shopper.
func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	notices := &service.NoticeList{}
	result, err := h.checkoutService.Checkout(ctx, middleware.UserID(c), orderID, &req, notices)
	if err != nil {
		var abortErr *service.AbortError
		if errors.As(err, &abortErr) {
			return c.JSON(http.StatusUnprocessableEntity, &dto.CheckoutResponse{
				Result:   "failure",
				Messages: notices.Messages(),
			})
		}
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}
