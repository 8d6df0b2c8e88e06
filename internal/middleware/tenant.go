package middleware

import (
	"fmt"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

// CustomerKey is the echo context key holding the *models.Customer resolved from the request host.
const CustomerKey = "customer"

// ResolveTenant identifies the customer of an unauthenticated request from its
// Origin or Referer header. Requests that match no customer fail with 400.
func ResolveTenant(tenants services.TenantService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			customer, err := tenants.ResolveByHost(req.Context(), req.Header.Get("Origin"), req.Header.Get("Referer"))
			if err != nil {
				return err
			}
			c.Set(CustomerKey, customer)
			return next(c)
		}
	}
}

func CustomerFrom(c echo.Context) (*models.Customer, error) {
	customer, ok := c.Get(CustomerKey).(*models.Customer)
	if !ok || customer == nil {
		return nil, fmt.Errorf("customer not resolved: %w", apperrors.ErrBadRequest)
	}
	return customer, nil
}
