package handlers

import (
	"net/http"

	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

// ReferenceHandlers handles legal references, license industries and user licenses.
type ReferenceHandlers struct {
	referenceService services.ReferenceService
}

func NewReferenceHandlers(referenceService services.ReferenceService) *ReferenceHandlers {
	return &ReferenceHandlers{referenceService: referenceService}
}

func (h *ReferenceHandlers) ListLegalRefs(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	q := query(c)
	params := q.ListParams()
	filters := models.LegalRefFilters{Jurisdiction: q.String("jurisdiction")}
	if err := q.Err(); err != nil {
		return err
	}
	page, err := h.referenceService.ListLegalRefs(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *ReferenceHandlers) CreateLegalRef(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.LegalRefRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	ref, err := h.referenceService.CreateLegalRef(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, ref)
}

func (h *ReferenceHandlers) GetLegalRef(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ref, err := h.referenceService.GetLegalRef(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, ref)
}

func (h *ReferenceHandlers) UpdateLegalRef(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.LegalRefRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	ref, err := h.referenceService.UpdateLegalRef(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, ref)
}

func (h *ReferenceHandlers) DeleteLegalRef(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.referenceService.DeleteLegalRef(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReferenceHandlers) ListIndustries(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	q := query(c)
	params := q.ListParams()
	if err := q.Err(); err != nil {
		return err
	}
	page, err := h.referenceService.ListIndustries(c.Request().Context(), principal, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *ReferenceHandlers) CreateIndustry(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.LicenseIndustryRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	industry, err := h.referenceService.CreateIndustry(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, industry)
}

func (h *ReferenceHandlers) GetIndustry(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	industry, err := h.referenceService.GetIndustry(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, industry)
}

func (h *ReferenceHandlers) UpdateIndustry(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.LicenseIndustryRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	industry, err := h.referenceService.UpdateIndustry(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, industry)
}

func (h *ReferenceHandlers) DeleteIndustry(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.referenceService.DeleteIndustry(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListLicenseUsers handles GET /license-users. expiresFrom and expiresTo go together.
func (h *ReferenceHandlers) ListLicenseUsers(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	q := query(c)
	params := q.ListParams()
	filters := models.LicenseUserFilters{
		LicenseIndustryID: q.UUID("licenseIndustryID"),
		UserID:            q.UUID("userID"),
	}
	filters.ExpiresFrom, filters.ExpiresTo = q.Range("expiresFrom", "expiresTo")
	if err := q.Err(); err != nil {
		return err
	}
	page, err := h.referenceService.ListLicenseUsers(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *ReferenceHandlers) CreateLicenseUser(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.LicenseUserRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	license, err := h.referenceService.CreateLicenseUser(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, license)
}

func (h *ReferenceHandlers) GetLicenseUser(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	license, err := h.referenceService.GetLicenseUser(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, license)
}

func (h *ReferenceHandlers) UpdateLicenseUser(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.LicenseUserRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	license, err := h.referenceService.UpdateLicenseUser(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, license)
}

func (h *ReferenceHandlers) DeleteLicenseUser(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.referenceService.DeleteLicenseUser(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
