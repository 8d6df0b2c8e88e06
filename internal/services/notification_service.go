package services

import (
	"context"
	"errors"
	"fmt"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/logging"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/google/uuid"
)

// NotificationService stores in-app notifications and serves them to their recipient.
type NotificationService interface {
	List(ctx context.Context, principal *common.Principal, filters models.NotificationFilters, params common.ListParams) (common.Page[*models.Notification], error)
	MarkRead(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Notification, error)
	HandleTaskAssigned(ctx context.Context, payload *models.TaskAssignedPayload) error
}

type notificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
}

func NewNotificationService(notifications repositories.NotificationRepository, users repositories.UserRepository) NotificationService {
	return &notificationService{notifications: notifications, users: users}
}

func (s *notificationService) List(ctx context.Context, principal *common.Principal, filters models.NotificationFilters, params common.ListParams) (common.Page[*models.Notification], error) {
	items, total, err := s.notifications.List(ctx, principal.CustomerID, principal.UserID, filters, params)
	if err != nil {
		return common.Page[*models.Notification]{}, err
	}
	return common.NewPage(items, total, params), nil
}

func (s *notificationService) MarkRead(ctx context.Context, principal *common.Principal, id uuid.UUID) (*models.Notification, error) {
	return s.notifications.MarkRead(ctx, principal.CustomerID, principal.UserID, id)
}

// HandleTaskAssigned records an in-app notification for the assignee. Deleted or inactive
// users are skipped without error so the queue does not retry them.
func (s *notificationService) HandleTaskAssigned(ctx context.Context, payload *models.TaskAssignedPayload) error {
	log := logging.FromContext(ctx).With().
		Str("task_id", payload.TaskID.String()).
		Str("user_id", payload.UserID.String()).
		Logger()

	user, err := s.users.GetByID(ctx, payload.CustomerID, payload.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Info().Msg("assignee no longer exists, notification dropped")
			return nil
		}
		return err
	}
	if !user.Active {
		log.Info().Msg("assignee inactive, notification dropped")
		return nil
	}

	message := fmt.Sprintf("You have been assigned %q", payload.Title)
	if payload.DueAt != nil {
		message += " due " + payload.DueAt.Format("2006-01-02 15:04")
	}
	taskID := payload.TaskID
	n := &models.Notification{
		ID:         uuid.New(),
		CustomerID: payload.CustomerID,
		UserID:     user.ID,
		TaskID:     &taskID,
		Kind:       models.NotificationTaskAssigned,
		Message:    message,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	if user.NotifyEmail && user.Email != "" {
		// No mail transport is configured; the event is logged for the mail relay to pick up.
		log.Info().Str("email", user.Email).Str("message", message).Msg("email notification")
	}
	return nil
}
