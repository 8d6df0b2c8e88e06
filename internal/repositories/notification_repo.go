package repositories

import (
	"context"

	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	MarkRead(ctx context.Context, customerID, userID, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, customerID, userID uuid.UUID, filters models.NotificationFilters, params common.ListParams) ([]*models.Notification, int, error)
}

type notificationRepo struct {
	db DBTX
}

func NewNotificationRepo(db DBTX) NotificationRepository {
	return &notificationRepo{db: db}
}

const notificationColumns = `n.id, n.customer_id, n.user_id, n.task_id, n.kind, n.message, n.read_at, n.created_at`

var notificationSorts = sortFields{
	fields:   map[string]string{"createdAt": "n.created_at", "kind": "n.kind"},
	fallback: "createdAt",
	tieBreak: "n.id",
}

func scanNotification(row scanner) (*models.Notification, error) {
	n := &models.Notification{}
	err := row.Scan(&n.ID, &n.CustomerID, &n.UserID, &n.TaskID, &n.Kind, &n.Message, &n.ReadAt, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, customer_id, user_id, task_id, kind, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, n.ID, n.CustomerID, n.UserID, n.TaskID, n.Kind, n.Message).Scan(&n.CreatedAt)
}

// MarkRead sets read_at once; reading an already read notification is a no-op.
func (r *notificationRepo) MarkRead(ctx context.Context, customerID, userID, id uuid.UUID) (*models.Notification, error) {
	query := `
		UPDATE notifications n SET read_at = COALESCE(n.read_at, NOW())
		WHERE n.customer_id = $1 AND n.user_id = $2 AND n.id = $3
		RETURNING ` + notificationColumns
	n, err := scanNotification(r.db.QueryRow(ctx, query, customerID, userID, id))
	if err != nil {
		return nil, notFound(err, "notification")
	}
	return n, nil
}

func (r *notificationRepo) List(ctx context.Context, customerID, userID uuid.UUID, filters models.NotificationFilters, params common.ListParams) ([]*models.Notification, int, error) {
	q := newListQuery(notificationColumns, "notifications n", "n.customer_id", customerID)
	q.where("n.user_id = ?", userID)
	q.search(params.Search, "n.message")
	if filters.Unread != nil {
		if *filters.Unread {
			q.where("n.read_at IS NULL")
		} else {
			q.where("n.read_at IS NOT NULL")
		}
	}
	return runList(ctx, r.db, q, params, notificationSorts, scanNotification)
}
