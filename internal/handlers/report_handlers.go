package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandlers handles the report catalog configuration, saved reports and
// the task status breakdown.
type ReportHandlers struct {
	reportService services.ReportService
}

func NewReportHandlers(reportService services.ReportService) *ReportHandlers {
	return &ReportHandlers{reportService: reportService}
}

func taskStatusQuery(c echo.Context) (models.TaskStatusQuery, error) {
	q := query(c)
	q.Require("groupBy")
	tsq := models.TaskStatusQuery{
		LocationID: q.UUID("locationID"),
		TopicID:    q.UUID("topicID"),
	}
	if groupBy := q.OneOf("groupBy", models.GroupByTopic, models.GroupByLocation); groupBy != nil {
		tsq.GroupBy = *groupBy
	}
	tsq.DueFrom, tsq.DueTo = q.Range("dueFrom", "dueTo")
	return tsq, q.Err()
}

// TaskStatus handles GET /reports/task-status
func (h *ReportHandlers) TaskStatus(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	tsq, err := taskStatusQuery(c)
	if err != nil {
		return err
	}

	groups, err := h.reportService.TaskStatus(c.Request().Context(), principal, tsq)
	if err != nil {
		return err
	}
	return ok(c, groups)
}

// TaskStatusPDF handles GET /reports/task-status/pdf
func (h *ReportHandlers) TaskStatusPDF(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	tsq, err := taskStatusQuery(c)
	if err != nil {
		return err
	}

	groups, err := h.reportService.TaskStatus(c.Request().Context(), principal, tsq)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := renderTaskStatusPDF(&buf, tsq, groups, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to render task status pdf: %w", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="task-status-by-`+tsq.GroupBy+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *ReportHandlers) ListReports(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	q := query(c)
	params := q.ListParams()
	filters := models.ReportFilters{
		CatalogID:  q.UUID("catalogID"),
		LocationID: q.UUID("locationID"),
		CreatedBy:  q.UUID("createdBy"),
	}
	if err := q.Err(); err != nil {
		return err
	}

	page, err := h.reportService.List(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *ReportHandlers) CreateReport(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req services.ReportRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	report, err := h.reportService.Create(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, report)
}

func (h *ReportHandlers) GetReport(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.reportService.Get(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, report)
}

func (h *ReportHandlers) UpdateReport(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.ReportRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	report, err := h.reportService.Update(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, report)
}

func (h *ReportHandlers) DeleteReport(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.reportService.Delete(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Catalog configuration. Reads are open to every authenticated user.

func (h *ReportHandlers) ListCatalogs(c echo.Context) error {
	q := query(c)
	params := q.ListParams()
	if err := q.Err(); err != nil {
		return err
	}
	page, err := h.reportService.ListCatalogs(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *ReportHandlers) GetCatalog(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	catalog, err := h.reportService.GetCatalog(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, catalog)
}

func (h *ReportHandlers) CreateCatalog(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req models.ReportCatalog
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	catalog, err := h.reportService.CreateCatalog(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, catalog)
}

func (h *ReportHandlers) UpdateCatalog(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.ReportCatalog
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	catalog, err := h.reportService.UpdateCatalog(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, catalog)
}

func (h *ReportHandlers) DeleteCatalog(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.reportService.DeleteCatalog(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReportHandlers) ListSections(c echo.Context) error {
	q := query(c)
	params := q.ListParams()
	catalogID := q.UUID("catalogID")
	if err := q.Err(); err != nil {
		return err
	}
	page, err := h.reportService.ListSections(c.Request().Context(), catalogID, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *ReportHandlers) GetSection(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	section, err := h.reportService.GetSection(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, section)
}

func (h *ReportHandlers) CreateSection(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req models.ReportSection
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	section, err := h.reportService.CreateSection(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, section)
}

func (h *ReportHandlers) UpdateSection(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.ReportSection
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	section, err := h.reportService.UpdateSection(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, section)
}

func (h *ReportHandlers) DeleteSection(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.reportService.DeleteSection(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReportHandlers) ListFilters(c echo.Context) error {
	q := query(c)
	params := q.ListParams()
	sectionID := q.UUID("sectionID")
	if err := q.Err(); err != nil {
		return err
	}
	page, err := h.reportService.ListFilters(c.Request().Context(), sectionID, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

func (h *ReportHandlers) GetFilter(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	filter, err := h.reportService.GetFilter(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, filter)
}

func (h *ReportHandlers) CreateFilter(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	var req models.ReportFilter
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	filter, err := h.reportService.CreateFilter(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, filter)
}

func (h *ReportHandlers) UpdateFilter(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.ReportFilter
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	filter, err := h.reportService.UpdateFilter(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, filter)
}

func (h *ReportHandlers) DeleteFilter(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.reportService.DeleteFilter(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
