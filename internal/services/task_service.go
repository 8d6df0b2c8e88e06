package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/caching"
	"taskboard/internal/common"
	"taskboard/internal/logging"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

// TaskNotifier is told about new assignments. The asynq client implements it.
type TaskNotifier interface {
	TaskAssigned(ctx context.Context, task *models.Task) error
}

type TaskService interface {
	Create(ctx context.Context, principal *common.Principal, req *TaskRequest) (*models.Task, error)
	Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *TaskRequest) (*models.Task, error)
	Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error
	List(ctx context.Context, principal *common.Principal, filters models.TaskFilters, params common.ListParams) (common.Page[*models.Task], error)
}

// TaskRequest is the body of task create and update. IsTaskSet and IsTemplate are fixed at creation.
type TaskRequest struct {
	LocationID        uuid.UUID  `json:"locationID"`
	TopicID           *uuid.UUID `json:"topicID"`
	AssignedUserID    *uuid.UUID `json:"assignedUserID"`
	AssignedProfileID *uuid.UUID `json:"assignedProfileID"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Type              string     `json:"type"`
	IsTaskSet         bool       `json:"isTaskSet"`
	IsTemplate        bool       `json:"isTemplate"`
	Recurrence        *string    `json:"recurrence"`
	TaskSetTemplateID *uuid.UUID `json:"taskSetTemplateID"`
	DueAt             *time.Time `json:"dueAt"`
}

type TaskConfig struct {
	DueSoonWindow time.Duration
}

type taskService struct {
	tasks     repositories.TaskRepository
	locations repositories.LocationRepository
	topics    repositories.TopicRepository
	users     repositories.UserRepository
	profiles  repositories.ProfileRepository
	access    AccessService
	notifier  TaskNotifier
	cacheSvc  caching.CacheService
	cfg       TaskConfig
	now       func() time.Time
}

func NewTaskService(
	tasks repositories.TaskRepository,
	locations repositories.LocationRepository,
	topics repositories.TopicRepository,
	users repositories.UserRepository,
	profiles repositories.ProfileRepository,
	access AccessService,
	notifier TaskNotifier,
	cacheSvc caching.CacheService,
	cfg TaskConfig,
) TaskService {
	return &taskService{
		tasks:     tasks,
		locations: locations,
		topics:    topics,
		users:     users,
		profiles:  profiles,
		access:    access,
		notifier:  notifier,
		cacheSvc:  cacheSvc,
		cfg:       cfg,
		now:       time.Now,
	}
}

func validateTaskRequest(req *TaskRequest, isTemplate, isTaskSet bool) error {
	v := &apperrors.ValidationError{}
	if strings.TrimSpace(req.Title) == "" {
		v.Add("title", "title is required")
	}
	if req.LocationID == uuid.Nil {
		v.Add("locationID", "locationID is required")
	}
	if !slices.Contains(models.TaskTypes, req.Type) {
		v.Add("type", "type must be one of: recurring, event, assessment")
	}
	if req.Recurrence != nil {
		switch {
		case !isTemplate:
			v.Add("recurrence", "recurrence is only allowed on templates")
		case !slices.Contains(models.Recurrences, *req.Recurrence):
			v.Add("recurrence", "recurrence must be one of: daily, weekly, monthly")
		}
	}
	if isTaskSet && req.TaskSetTemplateID != nil {
		v.Add("taskSetTemplateID", "a task set cannot belong to another task set")
	}
	return v.OrNil()
}

// checkReferences resolves every referenced row inside the tenant. Missing rows are 404.
func (s *taskService) checkReferences(ctx context.Context, principal *common.Principal, req *TaskRequest, selfID uuid.UUID) error {
	if _, err := s.locations.GetByID(ctx, principal.CustomerID, req.LocationID); err != nil {
		return err
	}
	if err := s.access.RequireLocation(ctx, principal, req.LocationID); err != nil {
		return err
	}
	if req.TopicID != nil {
		if _, err := s.topics.GetByID(ctx, principal.CustomerID, *req.TopicID); err != nil {
			return err
		}
	}
	if req.AssignedUserID != nil {
		if _, err := s.users.GetByID(ctx, principal.CustomerID, *req.AssignedUserID); err != nil {
			return err
		}
	}
	if req.AssignedProfileID != nil {
		if _, err := s.profiles.GetByID(ctx, principal.CustomerID, *req.AssignedProfileID); err != nil {
			return err
		}
	}
	if req.TaskSetTemplateID != nil {
		if *req.TaskSetTemplateID == selfID {
			return apperrors.Invalid("taskSetTemplateID", "a task cannot belong to itself")
		}
		set, err := s.tasks.GetByID(ctx, principal.CustomerID, *req.TaskSetTemplateID)
		if err != nil {
			return err
		}
		if !set.IsTaskSet {
			return apperrors.Invalid("taskSetTemplateID", "taskSetTemplateID must reference a task set")
		}
		if set.LocationID != req.LocationID {
			return apperrors.Invalid("locationID", "locationID must match the task set location")
		}
		if set.IsCompleted() {
			return apperrors.Conflict("task set is already completed")
		}
	}
	return nil
}

func (s *taskService) Create(ctx context.Context, principal *common.Principal, req *TaskRequest) (*models.Task, error) {
	if err := validateTaskRequest(req, req.IsTemplate, req.IsTaskSet); err != nil {
		return nil, err
	}
	id := uuid.New()
	if err := s.checkReferences(ctx, principal, req, id); err != nil {
		return nil, err
	}
	if err := requireCredAt(ctx, s.access, principal, models.CredTasksManage, req.LocationID); err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:                id,
		CustomerID:        principal.CustomerID,
		LocationID:        req.LocationID,
		TopicID:           req.TopicID,
		AssignedUserID:    req.AssignedUserID,
		AssignedProfileID: req.AssignedProfileID,
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		Type:              req.Type,
		IsTaskSet:         req.IsTaskSet,
		IsTemplate:        req.IsTemplate,
		Recurrence:        req.Recurrence,
		TaskSetTemplateID: req.TaskSetTemplateID,
		DueAt:             req.DueAt,
	}
	task.Color = ColorFor(task, s.now(), s.cfg.DueSoonWindow)
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	InvalidateReports(ctx, s.cacheSvc, task.CustomerID)
	if task.AssignedUserID != nil && !task.IsTemplate {
		s.notify(ctx, task)
	}
	return task, nil
}

func (s *taskService) notify(ctx context.Context, task *models.Task) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.TaskAssigned(ctx, task); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("task_id", task.ID.String()).Msg("failed to enqueue assignment notification")
	}
}

// Get attaches progress to task sets.
func (s *taskService) Get(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireLocation(ctx, principal, task.LocationID); err != nil {
		return nil, err
	}
	if task.IsTaskSet {
		total, completed, err := s.tasks.ChildProgress(ctx, principal.CustomerID, task.ID)
		if err != nil {
			return nil, err
		}
		progress := ComputeProgress(task.ID, total, completed)
		task.Progress = &progress
	}
	return task, nil
}

func (s *taskService) Update(ctx context.Context, principal *common.Principal, id uuid.UUID, req *TaskRequest) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireLocation(ctx, principal, task.LocationID); err != nil {
		return nil, err
	}
	if err := requireCredAt(ctx, s.access, principal, models.CredTasksManage, task.LocationID); err != nil {
		return nil, err
	}
	if err := validateTaskRequest(req, task.IsTemplate, task.IsTaskSet); err != nil {
		return nil, err
	}
	if task.IsTaskSet && req.LocationID != task.LocationID {
		return nil, apperrors.Conflict("a task set cannot move to another location")
	}
	if err := s.checkReferences(ctx, principal, req, id); err != nil {
		return nil, err
	}
	if req.LocationID != task.LocationID {
		if err := requireCredAt(ctx, s.access, principal, models.CredTasksManage, req.LocationID); err != nil {
			return nil, err
		}
	}

	reassigned := req.AssignedUserID != nil &&
		(task.AssignedUserID == nil || *task.AssignedUserID != *req.AssignedUserID)

	task.LocationID = req.LocationID
	task.TopicID = req.TopicID
	task.AssignedUserID = req.AssignedUserID
	task.AssignedProfileID = req.AssignedProfileID
	task.Title = strings.TrimSpace(req.Title)
	task.Description = req.Description
	task.Type = req.Type
	task.Recurrence = req.Recurrence
	task.TaskSetTemplateID = req.TaskSetTemplateID
	task.DueAt = req.DueAt
	task.Color = ColorFor(task, s.now(), s.cfg.DueSoonWindow)

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	InvalidateReports(ctx, s.cacheSvc, task.CustomerID)
	if reassigned && !task.IsTemplate {
		s.notify(ctx, task)
	}
	return task, nil
}

// Delete soft-deletes the task; a task set takes its children with it.
func (s *taskService) Delete(ctx context.Context, principal *common.Principal, id uuid.UUID) error {
	task, err := s.tasks.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return err
	}
	if err := s.access.RequireLocation(ctx, principal, task.LocationID); err != nil {
		return err
	}
	if err := requireCredAt(ctx, s.access, principal, models.CredTasksManage, task.LocationID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, principal.CustomerID, id); err != nil {
		return err
	}
	InvalidateReports(ctx, s.cacheSvc, principal.CustomerID)
	return nil
}

func (s *taskService) List(ctx context.Context, principal *common.Principal, filters models.TaskFilters, params common.ListParams) (common.Page[*models.Task], error) {
	if err := checkRange("dueFrom", "dueTo", filters.DueFrom, filters.DueTo); err != nil {
		return common.Page[*models.Task]{}, err
	}
	scope, err := s.access.Scope(ctx, principal)
	if err != nil {
		return common.Page[*models.Task]{}, err
	}
	items, total, err := s.tasks.List(ctx, principal.CustomerID, scope, filters, params)
	if err != nil {
		return common.Page[*models.Task]{}, err
	}
	return common.NewPage(items, total, params), nil
}

// checkRange enforces that a date range filter is given completely or not at all, in order.
func checkRange(fromName, toName string, from, to *time.Time) error {
	switch {
	case from == nil && to == nil:
		return nil
	case from == nil || to == nil:
		return apperrors.Invalid(fromName, fromName+" and "+toName+" must be provided together")
	case to.Before(*from):
		return apperrors.Invalid(toName, toName+" cannot be before "+fromName)
	}
	return nil
}
