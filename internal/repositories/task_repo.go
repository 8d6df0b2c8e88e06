package repositories

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.TaskFilters, params common.ListParams) ([]*models.Task, int, error)
	Complete(ctx context.Context, task *models.Task) error
	Reopen(ctx context.Context, task *models.Task) error
	CompleteSet(ctx context.Context, set *models.Task) (total, completed int, err error)
	ChildProgress(ctx context.Context, customerID, setID uuid.UUID) (total, completed int, err error)
	ListChildren(ctx context.Context, customerID, setID uuid.UUID) ([]*models.Task, error)
	RefreshColors(ctx context.Context, customerID uuid.UUID, now, dueSoon time.Time) (int64, error)
	ListRecurringTemplates(ctx context.Context, customerID uuid.UUID) ([]*models.Task, error)
	LatestInstanceDue(ctx context.Context, customerID, templateID uuid.UUID) (*time.Time, bool, error)
	Instantiate(ctx context.Context, instance *models.Task, children []*models.Task) error
}

type taskRepo struct {
	db DBTX
}

func NewTaskRepo(db DBTX) TaskRepository {
	return &taskRepo{db: db}
}

const taskColumns = `t.id, t.customer_id, t.location_id, t.topic_id, t.assigned_user_id, t.assigned_profile_id,
	t.title, t.description, t.type, t.color, t.is_task_set, t.is_template, t.recurrence, t.task_set_template_id,
	t.template_id, t.due_at, t.completed_at, t.user_completed, t.created_at, t.updated_at,
	l.name, tp.name, NULLIF(TRIM(COALESCE(au.first_name, '') || ' ' || COALESCE(au.last_name, '')), '')`

const taskFrom = `tasks t
	LEFT JOIN locations l ON l.id = t.location_id
	LEFT JOIN topics tp ON tp.id = t.topic_id
	LEFT JOIN users au ON au.id = t.assigned_user_id`

var taskSorts = sortFields{
	fields: map[string]string{
		"title":        "t.title",
		"dueAt":        "t.due_at",
		"completedAt":  "t.completed_at",
		"createdAt":    "t.created_at",
		"color":        "t.color",
		"type":         "t.type",
		"location":     "l.name",
		"topic":        "tp.name",
		"assignedUser": "au.last_name",
	},
	fallback: "dueAt",
	tieBreak: "t.id",
}

func scanTask(row scanner) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(&t.ID, &t.CustomerID, &t.LocationID, &t.TopicID, &t.AssignedUserID, &t.AssignedProfileID,
		&t.Title, &t.Description, &t.Type, &t.Color, &t.IsTaskSet, &t.IsTemplate, &t.Recurrence, &t.TaskSetTemplateID,
		&t.TemplateID, &t.DueAt, &t.CompletedAt, &t.UserCompleted, &t.CreatedAt, &t.UpdatedAt,
		&t.LocationName, &t.TopicName, &t.AssignedUserName)
	if err != nil {
		return nil, err
	}
	return t, nil
}

const insertTaskSQL = `
	INSERT INTO tasks (id, customer_id, location_id, topic_id, assigned_user_id, assigned_profile_id, title,
		description, type, color, is_task_set, is_template, recurrence, task_set_template_id, template_id, due_at,
		created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
	RETURNING created_at, updated_at
`

func insertTask(ctx context.Context, db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, t *models.Task) error {
	return db.QueryRow(ctx, insertTaskSQL, t.ID, t.CustomerID, t.LocationID, t.TopicID, t.AssignedUserID,
		t.AssignedProfileID, t.Title, t.Description, t.Type, t.Color, t.IsTaskSet, t.IsTemplate, t.Recurrence,
		t.TaskSetTemplateID, t.TemplateID, t.DueAt).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *taskRepo) Create(ctx context.Context, task *models.Task) error {
	return insertTask(ctx, r.db, task)
}

func (r *taskRepo) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM ` + taskFrom + `
		WHERE t.customer_id = $1 AND t.id = $2 AND t.deleted_at IS NULL`
	t, err := scanTask(r.db.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return nil, notFound(err, "task")
	}
	return t, nil
}

func (r *taskRepo) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET location_id = $1, topic_id = $2, assigned_user_id = $3, assigned_profile_id = $4, title = $5,
			description = $6, type = $7, color = $8, recurrence = $9, task_set_template_id = $10, due_at = $11,
			updated_at = NOW()
		WHERE customer_id = $12 AND id = $13 AND deleted_at IS NULL
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, task.LocationID, task.TopicID, task.AssignedUserID, task.AssignedProfileID,
		task.Title, task.Description, task.Type, task.Color, task.Recurrence, task.TaskSetTemplateID, task.DueAt,
		task.CustomerID, task.ID).Scan(&task.UpdatedAt)
	return notFound(err, "task")
}

// Delete soft-deletes a task and, for a set, its live children.
func (r *taskRepo) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	query := `
		UPDATE tasks SET deleted_at = NOW(), updated_at = NOW()
		WHERE customer_id = $1 AND (id = $2 OR task_set_template_id = $2) AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, customerID, id)
	return affectedOne(tag, err, "task")
}

func (r *taskRepo) List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.TaskFilters, params common.ListParams) ([]*models.Task, int, error) {
	q := newListQuery(taskColumns, taskFrom, "t.customer_id", customerID)
	q.where("t.deleted_at IS NULL")
	q.scope("t.location_id", scope)
	q.search(params.Search, "t.title", "t.description")
	eq(q, "t.location_id", filters.LocationID)
	eq(q, "t.topic_id", filters.TopicID)
	eq(q, "t.assigned_user_id", filters.AssignedUserID)
	eq(q, "t.assigned_profile_id", filters.AssignedProfileID)
	eq(q, "t.type", filters.Type)
	eq(q, "t.color", filters.Color)
	eq(q, "t.is_task_set", filters.IsTaskSet)
	eq(q, "t.is_template", filters.IsTemplate)
	eq(q, "t.task_set_template_id", filters.TaskSetTemplateID)
	eq(q, "t.user_completed", filters.UserCompleted)
	if filters.Completed != nil {
		if *filters.Completed {
			q.where("t.completed_at IS NOT NULL")
		} else {
			q.where("t.completed_at IS NULL")
		}
	}
	if filters.DueFrom != nil && filters.DueTo != nil {
		q.where("t.due_at BETWEEN ? AND ?", *filters.DueFrom, *filters.DueTo)
	}
	if filters.CompletedFrom != nil && filters.CompletedTo != nil {
		q.where("t.completed_at BETWEEN ? AND ?", *filters.CompletedFrom, *filters.CompletedTo)
	}
	return runList(ctx, r.db, q, params, taskSorts, scanTask)
}

// Complete stores the completion held by task unless the task was completed
// meanwhile or its set is completed.
func (r *taskRepo) Complete(ctx context.Context, task *models.Task) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockOpenParent(ctx, tx, task); err != nil {
			return err
		}
		return writeCompletion(ctx, tx, task, false, "task is already completed")
	})
}

// Reopen clears the completion of task unless it was reopened meanwhile or its
// set is completed.
func (r *taskRepo) Reopen(ctx context.Context, task *models.Task) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockOpenParent(ctx, tx, task); err != nil {
			return err
		}
		return writeCompletion(ctx, tx, task, true, "task is not completed")
	})
}

// CompleteSet locks the set row, then completes it only when it has live children
// and all of them are completed. Children writers hold a share lock on the same
// row, so the count cannot change before commit.
func (r *taskRepo) CompleteSet(ctx context.Context, set *models.Task) (int, int, error) {
	var total, completed int
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var completedAt *time.Time
		err := tx.QueryRow(ctx, `
			SELECT completed_at FROM tasks
			WHERE customer_id = $1 AND id = $2 AND deleted_at IS NULL
			FOR UPDATE
		`, set.CustomerID, set.ID).Scan(&completedAt)
		if err != nil {
			return notFound(err, "task set")
		}
		if completedAt != nil {
			return apperrors.Conflict("task set is already completed")
		}
		if err := tx.QueryRow(ctx, childProgressSQL, set.CustomerID, set.ID).Scan(&total, &completed); err != nil {
			return err
		}
		switch {
		case total == 0:
			return apperrors.Conflict("task set has no tasks")
		case completed < total:
			return apperrors.Conflict("task set still has open tasks")
		}
		return writeCompletion(ctx, tx, set, false, "task set is already completed")
	})
	return total, completed, err
}

// lockOpenParent share-locks the set task belongs to and fails when that set is completed.
func lockOpenParent(ctx context.Context, tx pgx.Tx, task *models.Task) error {
	if task.TaskSetTemplateID == nil {
		return nil
	}
	var completedAt *time.Time
	err := tx.QueryRow(ctx, `
		SELECT completed_at FROM tasks
		WHERE customer_id = $1 AND id = $2 AND deleted_at IS NULL
		FOR SHARE
	`, task.CustomerID, *task.TaskSetTemplateID).Scan(&completedAt)
	if err != nil {
		return notFound(err, "task set")
	}
	if completedAt != nil {
		return apperrors.Conflict("task set is already completed")
	}
	return nil
}

// writeCompletion stores completed_at, user_completed and color. The row must still
// be completed (wasCompleted) or open; otherwise conflict is returned.
func writeCompletion(ctx context.Context, tx pgx.Tx, task *models.Task, wasCompleted bool, conflict string) error {
	state := "completed_at IS NULL"
	if wasCompleted {
		state = "completed_at IS NOT NULL"
	}
	query := `
		UPDATE tasks
		SET completed_at = $1, user_completed = $2, color = $3, updated_at = NOW()
		WHERE customer_id = $4 AND id = $5 AND deleted_at IS NULL AND ` + state + `
		RETURNING updated_at
	`
	err := tx.QueryRow(ctx, query, task.CompletedAt, task.UserCompleted, task.Color, task.CustomerID, task.ID).
		Scan(&task.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.Conflict(conflict)
	}
	return err
}

const childProgressSQL = `
	SELECT COUNT(*), COUNT(completed_at)
	FROM tasks
	WHERE customer_id = $1 AND task_set_template_id = $2 AND deleted_at IS NULL
`

func (r *taskRepo) ChildProgress(ctx context.Context, customerID, setID uuid.UUID) (int, int, error) {
	var total, completed int
	err := r.db.QueryRow(ctx, childProgressSQL, customerID, setID).Scan(&total, &completed)
	return total, completed, err
}

func (r *taskRepo) ListChildren(ctx context.Context, customerID, setID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM ` + taskFrom + `
		WHERE t.customer_id = $1 AND t.task_set_template_id = $2 AND t.deleted_at IS NULL
		ORDER BY t.created_at, t.id`
	rows, err := r.db.Query(ctx, query, customerID, setID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTask)
}

// RefreshColors recomputes the colour of every pending, non-template task of a customer.
func (r *taskRepo) RefreshColors(ctx context.Context, customerID uuid.UUID, now, dueSoon time.Time) (int64, error) {
	query := `
		UPDATE tasks
		SET color = CASE WHEN due_at < $2 THEN 'red' WHEN due_at < $3 THEN 'yellow' ELSE 'white' END,
			updated_at = NOW()
		WHERE customer_id = $1 AND completed_at IS NULL AND deleted_at IS NULL AND is_template = FALSE
			AND color IS DISTINCT FROM (CASE WHEN due_at < $2 THEN 'red' WHEN due_at < $3 THEN 'yellow' ELSE 'white' END)
	`
	tag, err := r.db.Exec(ctx, query, customerID, now, dueSoon)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListRecurringTemplates returns top-level recurring templates at scheduler-active locations.
func (r *taskRepo) ListRecurringTemplates(ctx context.Context, customerID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM ` + taskFrom + `
		WHERE t.customer_id = $1 AND t.is_template = TRUE AND t.recurrence IS NOT NULL
			AND t.task_set_template_id IS NULL AND t.deleted_at IS NULL
			AND l.scheduler_active = TRUE AND l.deleted_at IS NULL
		ORDER BY t.created_at, t.id`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTask)
}

// LatestInstanceDue reports the newest due date among live instances of a template.
// exists is false when the template was never instantiated.
func (r *taskRepo) LatestInstanceDue(ctx context.Context, customerID, templateID uuid.UUID) (*time.Time, bool, error) {
	query := `
		SELECT COUNT(*), MAX(due_at)
		FROM tasks
		WHERE customer_id = $1 AND template_id = $2 AND deleted_at IS NULL
	`
	var n int
	var latest *time.Time
	if err := r.db.QueryRow(ctx, query, customerID, templateID).Scan(&n, &latest); err != nil {
		return nil, false, err
	}
	return latest, n > 0, nil
}

// Instantiate inserts a template instance and its cloned children atomically. An
// existing live instance of the same template and due date is a conflict.
func (r *taskRepo) Instantiate(ctx context.Context, instance *models.Task, children []*models.Task) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertTask(ctx, tx, instance); err != nil {
			return constraintConflict(err, "idx_tasks_template_due", "template already has an instance due then")
		}
		for _, child := range children {
			if err := insertTask(ctx, tx, child); err != nil {
				return err
			}
		}
		return nil
	})
}
