package handlers

import (
	"net/http"

	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

// AssessmentHandlers handles the scored results of assessment tasks and the
// custom task reports.
type AssessmentHandlers struct {
	assessmentService   services.AssessmentService
	customReportService services.CustomReportService
}

func NewAssessmentHandlers(assessmentService services.AssessmentService, customReportService services.CustomReportService) *AssessmentHandlers {
	return &AssessmentHandlers{
		assessmentService:   assessmentService,
		customReportService: customReportService,
	}
}

func (h *AssessmentHandlers) ListAssessments(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	q := query(c)
	params := q.ListParams()
	filters := models.AssessmentFilters{
		TaskID:     q.UUID("taskID"),
		AssessedBy: q.UUID("assessedBy"),
	}
	if err := q.Err(); err != nil {
		return err
	}
	page, err := h.assessmentService.List(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *AssessmentHandlers) CreateAssessment(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.AssessmentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	info, err := h.assessmentService.Create(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, info)
}

func (h *AssessmentHandlers) GetAssessment(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	info, err := h.assessmentService.Get(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, info)
}

func (h *AssessmentHandlers) UpdateAssessment(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.AssessmentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	info, err := h.assessmentService.Update(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, info)
}

func (h *AssessmentHandlers) DeleteAssessment(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.assessmentService.Delete(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AssessmentHandlers) ListCustomReports(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	q := query(c)
	params := q.ListParams()
	filters := models.TasksReportCustomFilters{
		LocationID: q.UUID("locationID"),
		CreatedBy:  q.UUID("createdBy"),
	}
	if err := q.Err(); err != nil {
		return err
	}
	page, err := h.customReportService.List(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *AssessmentHandlers) CreateCustomReport(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.CustomReportRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	report, err := h.customReportService.Create(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, report)
}

func (h *AssessmentHandlers) GetCustomReport(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.customReportService.Get(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, report)
}

func (h *AssessmentHandlers) UpdateCustomReport(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.CustomReportRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	report, err := h.customReportService.Update(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, report)
}

func (h *AssessmentHandlers) DeleteCustomReport(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.customReportService.Delete(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AssessmentHandlers) ListCustomReportItems(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.customReportService.ListItems(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, items)
}

func (h *AssessmentHandlers) AddCustomReportItem(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.CustomReportItemRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item, err := h.customReportService.AddItem(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return created(c, item)
}

func (h *AssessmentHandlers) DeleteCustomReportItem(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemID")
	if err != nil {
		return err
	}
	if err := h.customReportService.DeleteItem(c.Request().Context(), principal, id, itemID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
