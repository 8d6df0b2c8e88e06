package services

import (
	"context"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/caching"
	"taskboard/internal/common"
	"taskboard/internal/logging"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

// CompletionService completes and reopens tasks and task sets.
type CompletionService interface {
	CompleteTask(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Task, error)
	ReopenTask(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Task, error)
	ListCompletedTasks(ctx context.Context, principal *common.Principal, filters models.TaskFilters, params common.ListParams) (common.Page[*models.Task], error)

	Progress(ctx context.Context, principal *common.Principal, setID uuid.UUID) (*models.TaskProgress, error)
	CompleteTaskSet(ctx context.Context, principal *common.Principal, setID uuid.UUID) (*models.Task, error)
	ReopenTaskSet(ctx context.Context, principal *common.Principal, setID uuid.UUID) (*models.Task, error)
	ListCompletedTaskSets(ctx context.Context, principal *common.Principal, filters models.TaskFilters, params common.ListParams) (common.Page[*models.Task], error)
}

type completionService struct {
	tasks    repositories.TaskRepository
	access   AccessService
	cacheSvc caching.CacheService
	cfg      TaskConfig
	now      func() time.Time
}

// NewCompletionService builds the service. cacheSvc may be nil; otherwise cached reports of the
// customer are dropped on every completion change.
func NewCompletionService(tasks repositories.TaskRepository, access AccessService, cacheSvc caching.CacheService, cfg TaskConfig) CompletionService {
	return &completionService{tasks: tasks, access: access, cacheSvc: cacheSvc, cfg: cfg, now: time.Now}
}

func (s *completionService) load(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, principal.CustomerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireLocation(ctx, principal, task.LocationID); err != nil {
		return nil, err
	}
	return task, nil
}

// loadToComplete is load plus the tasks.complete cred at the task's location.
func (s *completionService) loadToComplete(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Task, error) {
	task, err := s.load(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := requireCredAt(ctx, s.access, principal, models.CredTasksComplete, task.LocationID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *completionService) loadSet(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Task, error) {
	set, err := s.load(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if !set.IsTaskSet {
		return nil, apperrors.NotFound("task set")
	}
	return set, nil
}

// parentCompleted reports whether task belongs to a set that is already completed.
func (s *completionService) parentCompleted(ctx context.Context, task *models.Task) (bool, error) {
	if task.TaskSetTemplateID == nil {
		return false, nil
	}
	parent, err := s.tasks.GetByID(ctx, task.CustomerID, *task.TaskSetTemplateID)
	if err != nil {
		return false, err
	}
	return parent.IsCompleted(), nil
}

func (s *completionService) CompleteTask(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Task, error) {
	task, err := s.loadToComplete(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	switch {
	case task.IsTaskSet:
		return nil, apperrors.Conflict("task sets are completed through the task set endpoint")
	case task.IsTemplate:
		return nil, apperrors.Conflict("templates cannot be completed")
	case task.IsCompleted():
		return nil, apperrors.Conflict("task is already completed")
	}
	done, err := s.parentCompleted(ctx, task)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, apperrors.Conflict("task set is already completed")
	}

	now := s.now()
	userID := principal.UserID
	task.CompletedAt = &now
	task.UserCompleted = &userID
	task.Color = ColorFor(task, now, s.cfg.DueSoonWindow)
	if err := s.tasks.Complete(ctx, task); err != nil {
		return nil, err
	}
	InvalidateReports(ctx, s.cacheSvc, task.CustomerID)
	logging.FromContext(ctx).Info().Str("task_id", task.ID.String()).Str("color", task.Color).Msg("task completed")
	return task, nil
}

func (s *completionService) ReopenTask(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Task, error) {
	task, err := s.loadToComplete(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if task.IsTaskSet {
		return nil, apperrors.Conflict("task sets are reopened through the completed task set endpoint")
	}
	if !task.IsCompleted() {
		return nil, apperrors.Conflict("task is not completed")
	}
	done, err := s.parentCompleted(ctx, task)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, apperrors.Conflict("task set is already completed")
	}
	return s.reopen(ctx, task)
}

func (s *completionService) reopen(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.CompletedAt = nil
	task.UserCompleted = nil
	task.Color = ColorFor(task, s.now(), s.cfg.DueSoonWindow)
	if err := s.tasks.Reopen(ctx, task); err != nil {
		return nil, err
	}
	InvalidateReports(ctx, s.cacheSvc, task.CustomerID)
	logging.FromContext(ctx).Info().Str("task_id", task.ID.String()).Msg("task reopened")
	return task, nil
}

func (s *completionService) completedList(ctx context.Context, principal *common.Principal, filters models.TaskFilters, params common.ListParams, sets bool) ([]*models.Task, int, error) {
	if err := checkRange("completedFrom", "completedTo", filters.CompletedFrom, filters.CompletedTo); err != nil {
		return nil, 0, err
	}
	scope, err := s.access.Scope(ctx, principal)
	if err != nil {
		return nil, 0, err
	}
	completed, template := true, false
	filters.Completed = &completed
	filters.IsTemplate = &template
	filters.IsTaskSet = &sets
	return s.tasks.List(ctx, principal.CustomerID, scope, filters, params)
}

func (s *completionService) ListCompletedTasks(ctx context.Context, principal *common.Principal, filters models.TaskFilters, params common.ListParams) (common.Page[*models.Task], error) {
	items, total, err := s.completedList(ctx, principal, filters, params, false)
	if err != nil {
		return common.Page[*models.Task]{}, err
	}
	return common.NewPage(items, total, params), nil
}

func (s *completionService) Progress(ctx context.Context, principal *common.Principal, setID uuid.UUID) (*models.TaskProgress, error) {
	if _, err := s.loadSet(ctx, principal, setID); err != nil {
		return nil, err
	}
	total, completed, err := s.tasks.ChildProgress(ctx, principal.CustomerID, setID)
	if err != nil {
		return nil, err
	}
	progress := ComputeProgress(setID, total, completed)
	return &progress, nil
}

// CompleteTaskSet requires at least one live child and every live child completed;
// the repository checks both under a lock on the set row.
func (s *completionService) CompleteTaskSet(ctx context.Context, principal *common.Principal, setID uuid.UUID) (*models.Task, error) {
	set, err := s.loadSet(ctx, principal, setID)
	if err != nil {
		return nil, err
	}
	if err := requireCredAt(ctx, s.access, principal, models.CredTasksComplete, set.LocationID); err != nil {
		return nil, err
	}
	if set.IsTemplate {
		return nil, apperrors.Conflict("templates cannot be completed")
	}
	if set.IsCompleted() {
		return nil, apperrors.Conflict("task set is already completed")
	}
	now := s.now()
	userID := principal.UserID
	set.CompletedAt = &now
	set.UserCompleted = &userID
	set.Color = ColorFor(set, now, s.cfg.DueSoonWindow)
	total, completed, err := s.tasks.CompleteSet(ctx, set)
	if err != nil {
		return nil, err
	}
	InvalidateReports(ctx, s.cacheSvc, set.CustomerID)
	progress := ComputeProgress(setID, total, completed)
	set.Progress = &progress
	logging.FromContext(ctx).Info().Str("task_set_id", set.ID.String()).Int("tasks", total).Msg("task set completed")
	return set, nil
}

func (s *completionService) ReopenTaskSet(ctx context.Context, principal *common.Principal, setID uuid.UUID) (*models.Task, error) {
	set, err := s.loadSet(ctx, principal, setID)
	if err != nil {
		return nil, err
	}
	if err := requireCredAt(ctx, s.access, principal, models.CredTasksComplete, set.LocationID); err != nil {
		return nil, err
	}
	if !set.IsCompleted() {
		return nil, apperrors.Conflict("task set is not completed")
	}
	return s.reopen(ctx, set)
}

func (s *completionService) ListCompletedTaskSets(ctx context.Context, principal *common.Principal, filters models.TaskFilters, params common.ListParams) (common.Page[*models.Task], error) {
	items, total, err := s.completedList(ctx, principal, filters, params, true)
	if err != nil {
		return common.Page[*models.Task]{}, err
	}
	for _, set := range items {
		n, done, err := s.tasks.ChildProgress(ctx, principal.CustomerID, set.ID)
		if err != nil {
			return common.Page[*models.Task]{}, err
		}
		progress := ComputeProgress(set.ID, n, done)
		set.Progress = &progress
	}
	return common.NewPage(items, total, params), nil
}
