package handlers

import (
	"net/http"

	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

type LocationHandlers struct {
	locationService services.LocationService
}

func NewLocationHandlers(locationService services.LocationService) *LocationHandlers {
	return &LocationHandlers{locationService: locationService}
}

// ListLocations returns the locations visible to the caller.
func (h *LocationHandlers) ListLocations(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	q := query(c)
	params := q.ListParams()
	filters := models.LocationFilters{SchedulerActive: q.Bool("schedulerActive")}
	if err := q.Err(); err != nil {
		return err
	}

	page, err := h.locationService.List(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *LocationHandlers) CreateLocation(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.LocationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	location, err := h.locationService.Create(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, location)
}

func (h *LocationHandlers) GetLocation(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	location, err := h.locationService.Get(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, location)
}

func (h *LocationHandlers) UpdateLocation(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.LocationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	location, err := h.locationService.Update(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, location)
}

func (h *LocationHandlers) DeleteLocation(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.locationService.Delete(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
