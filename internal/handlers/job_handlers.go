package handlers

import (
	"taskboard/internal/logging"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

// JobHandlers runs the scheduled maintenance jobs on demand.
type JobHandlers struct {
	maintenance services.MaintenanceService
}

func NewJobHandlers(maintenance services.MaintenanceService) *JobHandlers {
	return &JobHandlers{maintenance: maintenance}
}

// RefreshColors handles POST /jobs/refresh-colors
func (h *JobHandlers) RefreshColors(c echo.Context) error {
	ctx := c.Request().Context()
	updated, err := h.maintenance.RefreshColors(ctx)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Int64("updated", updated).Msg("colour refresh triggered")
	return ok(c, map[string]any{"job": "refresh-colors", "updated": updated})
}

// InstantiateRecurring handles POST /jobs/instantiate-recurring
func (h *JobHandlers) InstantiateRecurring(c echo.Context) error {
	ctx := c.Request().Context()
	count, err := h.maintenance.InstantiateRecurring(ctx)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Int("created", count).Msg("recurring instantiation triggered")
	return ok(c, map[string]any{"job": "instantiate-recurring", "created": count})
}
