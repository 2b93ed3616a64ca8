package handler

import (
	"billing-checkout/internal/repository"
	"billing-checkout/internal/service"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrOrderNotOwned):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPersonType),
		errors.Is(err, service.ErrInvalidPaymentMethod):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOrderNotPayable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return err
}
