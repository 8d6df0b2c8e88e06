package handlers

import (
	"net/http"

	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AccessHandlers handles creds, profiles and the security rows binding users to locations.
type AccessHandlers struct {
	profileService services.ProfileService
}

func NewAccessHandlers(profileService services.ProfileService) *AccessHandlers {
	return &AccessHandlers{profileService: profileService}
}

func (h *AccessHandlers) ListCreds(c echo.Context) error {
	creds, err := h.profileService.ListCreds(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, creds)
}

func (h *AccessHandlers) ListProfiles(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	q := query(c)
	params := q.ListParams()
	filters := models.ProfileFilters{LocationID: q.UUID("locationID")}
	if err := q.Err(); err != nil {
		return err
	}

	page, err := h.profileService.List(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *AccessHandlers) CreateProfile(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.ProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	profile, err := h.profileService.Create(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, profile)
}

func (h *AccessHandlers) GetProfile(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.profileService.Get(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, profile)
}

func (h *AccessHandlers) UpdateProfile(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.ProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	profile, err := h.profileService.Update(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, profile)
}

func (h *AccessHandlers) DeleteProfile(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.profileService.Delete(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccessHandlers) GetProfileCreds(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	creds, err := h.profileService.ProfileCreds(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, creds)
}

type profileCredsRequest struct {
	CredIDs []uuid.UUID `json:"credIDs"`
}

// ReplaceProfileCreds handles PUT /profiles/:id/creds. An empty list clears all grants.
func (h *AccessHandlers) ReplaceProfileCreds(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req profileCredsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	creds, err := h.profileService.ReplaceProfileCreds(c.Request().Context(), principal, id, req.CredIDs)
	if err != nil {
		return err
	}
	return ok(c, creds)
}

// ListSecurities handles GET /securities with filters userID, locationID and profileID.
func (h *AccessHandlers) ListSecurities(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	q := query(c)
	params := q.ListParams()
	filters := models.SecurityFilters{
		UserID:     q.UUID("userID"),
		LocationID: q.UUID("locationID"),
		ProfileID:  q.UUID("profileID"),
	}
	if err := q.Err(); err != nil {
		return err
	}

	page, err := h.profileService.ListSecurities(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *AccessHandlers) CreateSecurity(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.SecurityRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	security, err := h.profileService.CreateSecurity(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, security)
}

func (h *AccessHandlers) GetSecurity(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	security, err := h.profileService.GetSecurity(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, security)
}

func (h *AccessHandlers) UpdateSecurity(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.SecurityRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	security, err := h.profileService.UpdateSecurity(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, security)
}

func (h *AccessHandlers) DeleteSecurity(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.profileService.DeleteSecurity(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
