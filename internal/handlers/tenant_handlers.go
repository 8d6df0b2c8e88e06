package handlers

import (
	"net/http"

	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers handles the current customer and its SSO client configuration.
type TenantHandlers struct {
	tenantService services.TenantService
}

func NewTenantHandlers(tenantService services.TenantService) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService}
}

// GetCustomer returns the caller's customer.
func (h *TenantHandlers) GetCustomer(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	customer, err := h.tenantService.Get(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return ok(c, customer)
}

func (h *TenantHandlers) UpdateCustomer(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.UpdateCustomerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	customer, err := h.tenantService.Update(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return ok(c, customer)
}

// ListSocialiteClients handles GET /socialite-clients with filters provider and active.
func (h *TenantHandlers) ListSocialiteClients(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	q := query(c)
	params := q.ListParams()
	filters := models.SocialiteClientFilters{
		Provider: q.OneOf("provider", models.SSOProviders...),
		Active:   q.Bool("active"),
	}
	if err := q.Err(); err != nil {
		return err
	}

	page, err := h.tenantService.ListSocialiteClients(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *TenantHandlers) CreateSocialiteClient(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.SocialiteClientRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	client, err := h.tenantService.CreateSocialiteClient(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, client)
}

func (h *TenantHandlers) GetSocialiteClient(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.tenantService.GetSocialiteClient(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, client)
}

func (h *TenantHandlers) UpdateSocialiteClient(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.SocialiteClientRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	client, err := h.tenantService.UpdateSocialiteClient(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, client)
}

func (h *TenantHandlers) DeleteSocialiteClient(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.tenantService.DeleteSocialiteClient(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
