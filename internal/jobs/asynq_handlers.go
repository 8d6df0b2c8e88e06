package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"taskboard/internal/logging"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/hibiken/asynq"
)

// Task type definitions
const (
	TypeTaskAssigned = "task:assigned"
)

// Queue names and their worker priorities.
const (
	QueueNotifications = "notifications"
	QueueDefault       = "default"
)

const maxNotificationRetries = 5

// NewTaskAssignedTask creates a new assignment notification task
func NewTaskAssignedTask(payload *models.TaskAssignedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeTaskAssigned, data, asynq.Queue(QueueNotifications), asynq.MaxRetry(maxNotificationRetries)), nil
}

// Enqueuer is the part of *asynq.Client the notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier queues assignment notifications. It implements services.TaskNotifier.
type Notifier struct {
	client Enqueuer
}

func NewNotifier(client Enqueuer) *Notifier {
	return &Notifier{client: client}
}

// TaskAssigned enqueues a notification for the task's assignee. Unassigned tasks are ignored.
func (n *Notifier) TaskAssigned(ctx context.Context, task *models.Task) error {
	if task.AssignedUserID == nil {
		return nil
	}

	t, err := NewTaskAssignedTask(&models.TaskAssignedPayload{
		CustomerID: task.CustomerID,
		TaskID:     task.ID,
		UserID:     *task.AssignedUserID,
		Title:      task.Title,
		DueAt:      task.DueAt,
	})
	if err != nil {
		return fmt.Errorf("failed to build assignment task: %w", err)
	}

	info, err := n.client.EnqueueContext(ctx, t)
	if err != nil {
		return fmt.Errorf("failed to enqueue assignment task: %w", err)
	}

	logging.FromContext(ctx).Debug().
		Str("queue_task_id", info.ID).
		Str("task_id", task.ID.String()).
		Msg("assignment notification queued")
	return nil
}

// NotificationHandler processes notification tasks on the worker.
type NotificationHandler struct {
	notifications services.NotificationService
}

func NewNotificationHandler(notifications services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// HandleTaskAssigned handles task:assigned. Malformed payloads are not retried.
func (h *NotificationHandler) HandleTaskAssigned(ctx context.Context, t *asynq.Task) error {
	var payload models.TaskAssignedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal assignment payload: %v: %w", err, asynq.SkipRetry)
	}

	log := logging.FromContext(ctx)
	log.Debug().Str("task_id", payload.TaskID.String()).Msg("processing assignment notification")

	if err := h.notifications.HandleTaskAssigned(ctx, &payload); err != nil {
		return fmt.Errorf("failed to record assignment notification: %w", err)
	}
	return nil
}

// NewServeMux routes every task type the worker understands.
func NewServeMux(h *NotificationHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeTaskAssigned, h.HandleTaskAssigned)
	return mux
}
