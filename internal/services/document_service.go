package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/logging"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

const MaxDocumentSize = 25 << 20

type DocumentService interface {
	Upload(ctx context.Context, principal *common.Principal, req *DocumentUpload) (*models.Document, error)
	Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Document, error)
	Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *DocumentRequest) (*models.Document, error)
	Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	List(ctx context.Context, principal *common.Principal, filters models.DocumentFilters, params common.ListParams) (common.Page[*models.Document], error)
	DownloadURL(ctx context.Context, principal *common.Principal, id uuid.UUID) (*DownloadLink, error)
}

// DocumentRequest holds the editable metadata of a document.
type DocumentRequest struct {
	Title      string     `json:"title"`
	LocationID *uuid.UUID `json:"locationID"`
	TaskID     *uuid.UUID `json:"taskID"`
}

// DocumentUpload is a DocumentRequest plus the file read from the multipart form.
type DocumentUpload struct {
	DocumentRequest
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type documentService struct {
	documents    repositories.DocumentRepository
	locations    repositories.LocationRepository
	tasks        repositories.TaskRepository
	access       AccessService
	storage      ObjectStorage
	presignedTTL time.Duration
}

func NewDocumentService(
	documents repositories.DocumentRepository,
	locations repositories.LocationRepository,
	tasks repositories.TaskRepository,
	access AccessService,
	storage ObjectStorage,
	presignedTTL time.Duration,
) DocumentService {
	return &documentService{
		documents:    documents,
		locations:    locations,
		tasks:        tasks,
		access:       access,
		storage:      storage,
		presignedTTL: presignedTTL,
	}
}

// DocumentObjectKey is the storage key of a document file.
func DocumentObjectKey(customerID, documentID uuid.UUID, fileName string) string {
	return fmt.Sprintf("customers/%s/documents/%s/%s", customerID, documentID, cleanFileName(fileName))
}

func cleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}

// resolveLinks checks the optional location and task. A task without an explicit
// location lends its own; both given must agree.
func (s *documentService) resolveLinks(ctx context.Context, principal *common.Principal, req *DocumentRequest) error {
	if req.TaskID != nil {
		task, err := s.tasks.GetByID(ctx, principal.CustomerID, *req.TaskID)
		if err != nil {
			return err
		}
		if req.LocationID == nil {
			loc := task.LocationID
			req.LocationID = &loc
		} else if *req.LocationID != task.LocationID {
			return apperrors.Invalid("locationID", "locationID must match the task location")
		}
	}
	if req.LocationID != nil {
		if _, err := s.locations.GetByID(ctx, principal.CustomerID, *req.LocationID); err != nil {
			return err
		}
		if err := s.access.RequireLocation(ctx, principal, *req.LocationID); err != nil {
			return err
		}
		if err := requireCredAt(ctx, s.access, principal, models.CredDocumentsManage, *req.LocationID); err != nil {
			return err
		}
	}
	return nil
}

func (s *documentService) Upload(ctx context.Context, principal *common.Principal, req *DocumentUpload) (*models.Document, error) {
	v := &apperrors.ValidationError{}
	if req.Body == nil || req.FileName == "" {
		v.Add("file", "file is required")
	}
	if req.Size <= 0 {
		v.Add("file", "file must not be empty")
	} else if req.Size > MaxDocumentSize {
		v.Add("file", fmt.Sprintf("file must not exceed %d MB", MaxDocumentSize>>20))
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if err := s.resolveLinks(ctx, principal, &req.DocumentRequest); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = cleanFileName(req.FileName)
	}
	doc := &models.Document{
		ID:          uuid.New(),
		CustomerID:  principal.CustomerID,
		LocationID:  req.LocationID,
		TaskID:      req.TaskID,
		Title:       title,
		FileName:    cleanFileName(req.FileName),
		ContentType: req.ContentType,
		Size:        req.Size,
		UploadedBy:  principal.UserID,
	}
	doc.ObjectKey = DocumentObjectKey(doc.CustomerID, doc.ID, doc.FileName)

	if err := s.storage.Put(ctx, doc.ObjectKey, req.Body, req.Size, req.ContentType); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		if rmErr := s.storage.Remove(ctx, doc.ObjectKey); rmErr != nil {
			logging.FromContext(ctx).Warn().Err(rmErr).Str("object_key", doc.ObjectKey).Msg("orphaned document object")
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Document, error) {
	doc, err := s.documents.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if doc.LocationID != nil {
		if err := s.access.RequireLocation(ctx, principal, *doc.LocationID); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *DocumentRequest) (*models.Document, error) {
	doc, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.Invalid("title", "title is required")
	}
	if err := s.resolveLinks(ctx, principal, req); err != nil {
		return nil, err
	}
	doc.Title = strings.TrimSpace(req.Title)
	doc.LocationID = req.LocationID
	doc.TaskID = req.TaskID
	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete soft-deletes the row and removes the stored object.
func (s *documentService) Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	doc, err := s.Get(ctx, principal, id)
	if err != nil {
		return err
	}
	if doc.LocationID != nil {
		if err := requireCredAt(ctx, s.access, principal, models.CredDocumentsManage, *doc.LocationID); err != nil {
			return err
		}
	}
	if err := s.documents.Delete(ctx, principal.CustomerID, id); err != nil {
		return err
	}
	if err := s.storage.Remove(ctx, doc.ObjectKey); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("object_key", doc.ObjectKey).Msg("failed to remove document object")
	}
	return nil
}

func (s *documentService) List(ctx context.Context, principal *common.Principal, filters models.DocumentFilters, params common.ListParams) (common.Page[*models.Document], error) {
	scope, err := s.access.Scope(ctx, principal)
	if err != nil {
		return common.Page[*models.Document]{}, err
	}
	items, total, err := s.documents.List(ctx, principal.CustomerID, scope, filters, params)
	if err != nil {
		return common.Page[*models.Document]{}, err
	}
	return common.NewPage(items, total, params), nil
}

func (s *documentService) DownloadURL(ctx context.Context, principal *common.Principal, id uuid.UUID) (*DownloadLink, error) {
	doc, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	url, err := s.storage.PresignedGet(ctx, doc.ObjectKey, doc.FileName, s.presignedTTL)
	if err != nil {
		return nil, fmt.Errorf("presign document: %w", err)
	}
	return &DownloadLink{URL: url, ExpiresAt: time.Now().Add(s.presignedTTL)}, nil
}
