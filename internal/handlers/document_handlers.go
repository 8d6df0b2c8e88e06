package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

// DocumentHandlers handles document metadata and the files stored in object storage.
type DocumentHandlers struct {
	documentService services.DocumentService
}

func NewDocumentHandlers(documentService services.DocumentService) *DocumentHandlers {
	return &DocumentHandlers{documentService: documentService}
}

func (h *DocumentHandlers) ListDocuments(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	q := query(c)
	params := q.ListParams()
	filters := models.DocumentFilters{
		LocationID: q.UUID("locationID"),
		TaskID:     q.UUID("taskID"),
		UploadedBy: q.UUID("uploadedBy"),
	}
	if err := q.Err(); err != nil {
		return err
	}

	page, err := h.documentService.List(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

// UploadDocument handles a multipart POST /documents with a "file" part and
// the title, locationID and taskID fields.
func (h *DocumentHandlers) UploadDocument(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return apperrors.Invalid("file", "file is required")
		}
		return fmt.Errorf("invalid multipart form: %w", apperrors.ErrBadRequest)
	}
	form, err := c.FormParams()
	if err != nil {
		return fmt.Errorf("invalid multipart form: %w", apperrors.ErrBadRequest)
	}

	fields := common.NewQueryReader(form)
	req := services.DocumentUpload{
		DocumentRequest: services.DocumentRequest{
			Title:      common.SafeString(fields.String("title")),
			LocationID: fields.UUID("locationID"),
			TaskID:     fields.UUID("taskID"),
		},
		FileName:    file.Filename,
		ContentType: file.Header.Get(echo.HeaderContentType),
		Size:        file.Size,
	}
	if err := fields.Err(); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()
	req.Body = src

	doc, err := h.documentService.Upload(c.Request().Context(), principal, &req)
	if err != nil {
		return err
	}
	return created(c, doc)
}

func (h *DocumentHandlers) GetDocument(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	doc, err := h.documentService.Get(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, doc)
}

// UpdateDocument edits metadata only; the stored file is immutable.
func (h *DocumentHandlers) UpdateDocument(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.DocumentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	doc, err := h.documentService.Update(c.Request().Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ok(c, doc)
}

func (h *DocumentHandlers) DeleteDocument(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.documentService.Delete(c.Request().Context(), principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DownloadDocument returns a presigned URL for the stored file.
func (h *DocumentHandlers) DownloadDocument(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	link, err := h.documentService.DownloadURL(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, link)
}
