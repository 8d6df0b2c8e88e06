package services

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/caching"
	"taskboard/internal/logging"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

// MaintenanceService holds the periodic jobs run by the scheduler.
type MaintenanceService interface {
	RefreshColors(ctx context.Context) (int64, error)
	InstantiateRecurring(ctx context.Context) (int, error)
}

type maintenanceService struct {
	customers repositories.CustomerRepository
	tasks     repositories.TaskRepository
	notifier  TaskNotifier
	cacheSvc  caching.CacheService
	cfg       TaskConfig
	now       func() time.Time
}

// NewMaintenanceService builds the jobs. Cached reports of a customer are dropped
// whenever a job changes its tasks; cacheSvc may be nil.
func NewMaintenanceService(customers repositories.CustomerRepository, tasks repositories.TaskRepository, notifier TaskNotifier, cacheSvc caching.CacheService, cfg TaskConfig) MaintenanceService {
	return &maintenanceService{customers: customers, tasks: tasks, notifier: notifier, cacheSvc: cacheSvc, cfg: cfg, now: time.Now}
}

// RefreshColors recomputes pending task colours of every active customer.
// A failing customer is logged and skipped.
func (s *maintenanceService) RefreshColors(ctx context.Context) (int64, error) {
	log := logging.FromContext(ctx)
	customers, err := s.customers.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	var total int64
	for _, c := range customers {
		n, err := s.tasks.RefreshColors(ctx, c.ID, now, now.Add(s.cfg.DueSoonWindow))
		if err != nil {
			log.Error().Err(err).Str("customer_id", c.ID.String()).Msg("colour refresh failed")
			continue
		}
		if n > 0 {
			InvalidateReports(ctx, s.cacheSvc, c.ID)
		}
		total += n
	}
	log.Debug().Int64("updated", total).Msg("task colours refreshed")
	return total, nil
}

// InstantiateRecurring creates the next instance of every recurring template whose latest
// instance is already due, or which has none.
func (s *maintenanceService) InstantiateRecurring(ctx context.Context) (int, error) {
	log := logging.FromContext(ctx)
	customers, err := s.customers.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	created := 0
	for _, c := range customers {
		templates, err := s.tasks.ListRecurringTemplates(ctx, c.ID)
		if err != nil {
			log.Error().Err(err).Str("customer_id", c.ID.String()).Msg("listing recurring templates failed")
			continue
		}
		before := created
		for _, tmpl := range templates {
			ok, err := s.instantiate(ctx, tmpl, now)
			if err != nil {
				log.Error().Err(err).Str("template_id", tmpl.ID.String()).Msg("recurring instantiation failed")
				continue
			}
			if ok {
				created++
			}
		}
		if created > before {
			InvalidateReports(ctx, s.cacheSvc, c.ID)
		}
	}
	if created > 0 {
		log.Info().Int("created", created).Msg("recurring tasks instantiated")
	}
	return created, nil
}

func (s *maintenanceService) instantiate(ctx context.Context, tmpl *models.Task, now time.Time) (bool, error) {
	if tmpl.Recurrence == nil {
		return false, nil
	}
	latest, exists, err := s.tasks.LatestInstanceDue(ctx, tmpl.CustomerID, tmpl.ID)
	if err != nil {
		return false, err
	}

	var due time.Time
	switch {
	case !exists:
		base := tmpl.CreatedAt
		if tmpl.DueAt != nil {
			base = *tmpl.DueAt
		}
		due = NextOccurrence(base, *tmpl.Recurrence, now)
	case latest == nil:
		due = NextOccurrence(now, *tmpl.Recurrence, now)
	case latest.After(now):
		return false, nil
	default:
		due = NextOccurrence(*latest, *tmpl.Recurrence, now)
	}

	instance := cloneTask(tmpl, now, s.cfg.DueSoonWindow)
	instance.DueAt = &due
	instance.Color = ColorFor(instance, now, s.cfg.DueSoonWindow)

	var children []*models.Task
	if tmpl.IsTaskSet {
		kids, err := s.tasks.ListChildren(ctx, tmpl.CustomerID, tmpl.ID)
		if err != nil {
			return false, err
		}
		for _, kid := range kids {
			child := cloneTask(kid, now, s.cfg.DueSoonWindow)
			child.TaskSetTemplateID = &instance.ID
			child.DueAt = &due
			child.Color = ColorFor(child, now, s.cfg.DueSoonWindow)
			children = append(children, child)
		}
	}

	if err := s.tasks.Instantiate(ctx, instance, children); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logging.FromContext(ctx).Debug().Str("template_id", tmpl.ID.String()).Time("due_at", due).Msg("instance already created elsewhere")
			return false, nil
		}
		return false, err
	}
	if s.notifier != nil {
		for _, t := range append([]*models.Task{instance}, children...) {
			if t.AssignedUserID == nil {
				continue
			}
			if err := s.notifier.TaskAssigned(ctx, t); err != nil {
				logging.FromContext(ctx).Warn().Err(err).Str("task_id", t.ID.String()).Msg("failed to enqueue assignment notification")
			}
		}
	}
	return true, nil
}

// cloneTask copies a template into a pending, non-template task pointing back at it.
func cloneTask(tmpl *models.Task, now time.Time, dueSoon time.Duration) *models.Task {
	templateID := tmpl.ID
	t := &models.Task{
		ID:                uuid.New(),
		CustomerID:        tmpl.CustomerID,
		LocationID:        tmpl.LocationID,
		TopicID:           tmpl.TopicID,
		AssignedUserID:    tmpl.AssignedUserID,
		AssignedProfileID: tmpl.AssignedProfileID,
		Title:             tmpl.Title,
		Description:       tmpl.Description,
		Type:              tmpl.Type,
		IsTaskSet:         tmpl.IsTaskSet,
		TemplateID:        &templateID,
		DueAt:             tmpl.DueAt,
	}
	t.Color = ColorFor(t, now, dueSoon)
	return t
}
