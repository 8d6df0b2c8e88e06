package repositories

import (
	"context"

	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
)

type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Topic, error)
	Update(ctx context.Context, topic *models.Topic) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID, filters models.TopicFilters, params common.ListParams) ([]*models.Topic, int, error)
	AncestorIDs(ctx context.Context, customerID, id uuid.UUID) ([]uuid.UUID, error)
	CountChildren(ctx context.Context, customerID, id uuid.UUID) (int, error)
	CountTasks(ctx context.Context, customerID, id uuid.UUID) (int, error)
}

type topicRepo struct {
	db DBTX
}

func NewTopicRepo(db DBTX) TopicRepository {
	return &topicRepo{db: db}
}

const topicColumns = `t.id, t.customer_id, t.name, t.description, t.topic_parent_id, t.created_at, t.updated_at`

var topicSorts = sortFields{
	fields:   map[string]string{"name": "t.name", "createdAt": "t.created_at"},
	fallback: "name",
	tieBreak: "t.id",
}

func scanTopic(row scanner) (*models.Topic, error) {
	t := &models.Topic{}
	err := row.Scan(&t.ID, &t.CustomerID, &t.Name, &t.Description, &t.TopicParentID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *topicRepo) Create(ctx context.Context, topic *models.Topic) error {
	query := `
		INSERT INTO topics (id, customer_id, name, description, topic_parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, topic.ID, topic.CustomerID, topic.Name, topic.Description, topic.TopicParentID).
		Scan(&topic.CreatedAt, &topic.UpdatedAt)
}

func (r *topicRepo) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics t WHERE t.customer_id = $1 AND t.id = $2 AND t.deleted_at IS NULL`
	t, err := scanTopic(r.db.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return nil, notFound(err, "topic")
	}
	return t, nil
}

func (r *topicRepo) Update(ctx context.Context, topic *models.Topic) error {
	query := `
		UPDATE topics
		SET name = $1, description = $2, topic_parent_id = $3, updated_at = NOW()
		WHERE customer_id = $4 AND id = $5 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, topic.Name, topic.Description, topic.TopicParentID, topic.CustomerID, topic.ID)
	return affectedOne(tag, err, "topic")
}

func (r *topicRepo) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	query := `UPDATE topics SET deleted_at = NOW() WHERE customer_id = $1 AND id = $2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, customerID, id)
	return affectedOne(tag, err, "topic")
}

func (r *topicRepo) List(ctx context.Context, customerID uuid.UUID, filters models.TopicFilters, params common.ListParams) ([]*models.Topic, int, error) {
	q := newListQuery(topicColumns, "topics t", "t.customer_id", customerID)
	q.where("t.deleted_at IS NULL")
	q.search(params.Search, "t.name", "t.description")
	if filters.RootOnly {
		q.where("t.topic_parent_id IS NULL")
	}
	eq(q, "t.topic_parent_id", filters.ParentID)
	return runList(ctx, r.db, q, params, topicSorts, scanTopic)
}

// AncestorIDs walks topic_parent_id upwards from id, excluding id itself.
func (r *topicRepo) AncestorIDs(ctx context.Context, customerID, id uuid.UUID) ([]uuid.UUID, error) {
	query := `
		WITH RECURSIVE chain AS (
			SELECT id, topic_parent_id, 0 AS depth FROM topics WHERE customer_id = $1 AND id = $2
			UNION ALL
			SELECT p.id, p.topic_parent_id, c.depth + 1
			FROM topics p JOIN chain c ON p.id = c.topic_parent_id
			WHERE p.customer_id = $1 AND c.depth < 64
		)
		SELECT id FROM chain WHERE depth > 0
	`
	rows, err := r.db.Query(ctx, query, customerID, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var ancestor uuid.UUID
		if err := rows.Scan(&ancestor); err != nil {
			return nil, err
		}
		ids = append(ids, ancestor)
	}
	return ids, rows.Err()
}

func (r *topicRepo) CountChildren(ctx context.Context, customerID, id uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM topics WHERE customer_id = $1 AND topic_parent_id = $2 AND deleted_at IS NULL`,
		customerID, id).Scan(&n)
	return n, err
}

func (r *topicRepo) CountTasks(ctx context.Context, customerID, id uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE customer_id = $1 AND topic_id = $2 AND deleted_at IS NULL`,
		customerID, id).Scan(&n)
	return n, err
}
