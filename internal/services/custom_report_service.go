package services

import (
	"context"
	"strings"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

// CustomReportService manages hand-picked task lists.
type CustomReportService interface {
	Create(ctx context.Context, principal *common.Principal, req *CustomReportRequest) (*models.TasksReportCustom, error)
	Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.TasksReportCustom, error)
	Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *CustomReportRequest) (*models.TasksReportCustom, error)
	Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	List(ctx context.Context, principal *common.Principal, filters models.TasksReportCustomFilters, params common.ListParams) (common.Page[*models.TasksReportCustom], error)

	ListItems(ctx context.Context, principal *common.Principal, reportID uuid.UUID) ([]*models.TasksReportCustomItem, error)
	AddItem(ctx context.Context, principal *common.Principal, reportID uuid.UUID, req *CustomReportItemRequest) (*models.TasksReportCustomItem, error)
	DeleteItem(ctx context.Context, principal *common.Principal, reportID, itemID uuid.UUID) error
}

type CustomReportRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	LocationID  *uuid.UUID `json:"locationID"`
}

type CustomReportItemRequest struct {
	TaskID   uuid.UUID `json:"taskID"`
	Position int       `json:"position"`
}

type customReportService struct {
	reports   repositories.TasksReportCustomRepository
	tasks     repositories.TaskRepository
	locations repositories.LocationRepository
	access    AccessService
}

func NewCustomReportService(
	reports repositories.TasksReportCustomRepository,
	tasks repositories.TaskRepository,
	locations repositories.LocationRepository,
	access AccessService,
) CustomReportService {
	return &customReportService{reports: reports, tasks: tasks, locations: locations, access: access}
}

func (s *customReportService) check(ctx context.Context, principal *common.Principal, req *CustomReportRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.Invalid("name", "name is required")
	}
	if req.LocationID == nil {
		return nil
	}
	if _, err := s.locations.GetByID(ctx, principal.CustomerID, *req.LocationID); err != nil {
		return err
	}
	return s.access.RequireLocation(ctx, principal, *req.LocationID)
}

func (s *customReportService) Create(ctx context.Context, principal *common.Principal, req *CustomReportRequest) (*models.TasksReportCustom, error) {
	if err := s.check(ctx, principal, req); err != nil {
		return nil, err
	}
	report := &models.TasksReportCustom{
		ID:          uuid.New(),
		CustomerID:  principal.CustomerID,
		LocationID:  req.LocationID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedBy:   principal.UserID,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *customReportService) Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.TasksReportCustom, error) {
	report, err := s.reports.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if report.LocationID != nil {
		if err := s.access.RequireLocation(ctx, principal, *report.LocationID); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (s *customReportService) owned(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.TasksReportCustom, error) {
	report, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if report.CreatedBy != principal.UserID && !principal.IsAdmin() {
		return nil, apperrors.Forbidden("only the author or an administrator may change this report")
	}
	return report, nil
}

func (s *customReportService) Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *CustomReportRequest) (*models.TasksReportCustom, error) {
	report, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, principal, req); err != nil {
		return nil, err
	}
	report.Name = strings.TrimSpace(req.Name)
	report.Description = req.Description
	report.LocationID = req.LocationID
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *customReportService) Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	if _, err := s.owned(ctx, principal, id); err != nil {
		return err
	}
	return s.reports.Delete(ctx, principal.CustomerID, id)
}

func (s *customReportService) List(ctx context.Context, principal *common.Principal, filters models.TasksReportCustomFilters, params common.ListParams) (common.Page[*models.TasksReportCustom], error) {
	scope, err := s.access.Scope(ctx, principal)
	if err != nil {
		return common.Page[*models.TasksReportCustom]{}, err
	}
	items, total, err := s.reports.List(ctx, principal.CustomerID, scope, filters, params)
	if err != nil {
		return common.Page[*models.TasksReportCustom]{}, err
	}
	return common.NewPage(items, total, params), nil
}

func (s *customReportService) ListItems(ctx context.Context, principal *common.Principal, reportID uuid.UUID) ([]*models.TasksReportCustomItem, error) {
	if _, err := s.Get(ctx, principal, reportID); err != nil {
		return nil, err
	}
	items, err := s.reports.ListItems(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.TasksReportCustomItem{}
	}
	return items, nil
}

// AddItem appends a task. Reports bound to a location only accept tasks of that location.
func (s *customReportService) AddItem(ctx context.Context, principal *common.Principal, reportID uuid.UUID, req *CustomReportItemRequest) (*models.TasksReportCustomItem, error) {
	report, err := s.owned(ctx, principal, reportID)
	if err != nil {
		return nil, err
	}
	if req.Position < 0 {
		return nil, apperrors.Invalid("position", "position must not be negative")
	}
	task, err := s.tasks.GetByID(ctx, principal.CustomerID, req.TaskID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireLocation(ctx, principal, task.LocationID); err != nil {
		return nil, err
	}
	if report.LocationID != nil && *report.LocationID != task.LocationID {
		return nil, apperrors.Invalid("taskID", "task belongs to another location than the report")
	}
	item := &models.TasksReportCustomItem{
		ID:        uuid.New(),
		ReportID:  reportID,
		TaskID:    task.ID,
		Position:  req.Position,
		TaskTitle: task.Title,
	}
	if err := s.reports.AddItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *customReportService) DeleteItem(ctx context.Context, principal *common.Principal, reportID, itemID uuid.UUID) error {
	if _, err := s.owned(ctx, principal, reportID); err != nil {
		return err
	}
	return s.reports.DeleteItem(ctx, reportID, itemID)
}
