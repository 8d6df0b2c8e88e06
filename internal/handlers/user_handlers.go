package handlers

import (
	"net/http"

	"taskboard/internal/common"
	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers handles user-related HTTP requests
type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

// ListUsers handles GET /users with filters active, approved, userType and locationID.
func (h *UserHandlers) ListUsers(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	q := query(c)
	params := q.ListParams()
	filters := models.UserFilters{
		Active:     q.Bool("active"),
		Approved:   q.Bool("approved"),
		UserType:   q.OneOf("userType", common.UserTypeSuperAdmin, common.UserTypeAdmin, common.UserTypeUser),
		LocationID: q.UUID("locationID"),
	}
	if err := q.Err(); err != nil {
		return err
	}

	page, err := h.userService.List(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *UserHandlers) CreateUser(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.UserRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Create(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, user)
}

func (h *UserHandlers) GetUser(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.Get(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, user)
}

func (h *UserHandlers) UpdateUser(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.UserRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Update(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, user)
}

// UpdatePassword handles PUT /users/:id/password
func (h *UserHandlers) UpdatePassword(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.PasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.userService.UpdatePassword(c.Request().Context(), principal, id, &req); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandlers) DeleteUser(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.userService.Delete(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
