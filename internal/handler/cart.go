package handler

import (
	"billing-checkout/internal/dto"
	"billing-checkout/internal/middleware"
	"billing-checkout/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.cartService.ListProducts(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.cartService.AddItem(ctx, middleware.UserID(c), req.ProductID, req.Quantity); err != nil {
		return toHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.cartService.GetCart(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}
