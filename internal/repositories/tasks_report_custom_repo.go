package repositories

import (
	"context"

	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
)

type TasksReportCustomRepository interface {
	Create(ctx context.Context, report *models.TasksReportCustom) error
	GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.TasksReportCustom, error)
	Update(ctx context.Context, report *models.TasksReportCustom) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.TasksReportCustomFilters, params common.ListParams) ([]*models.TasksReportCustom, int, error)

	AddItem(ctx context.Context, item *models.TasksReportCustomItem) error
	ListItems(ctx context.Context, reportID uuid.UUID) ([]*models.TasksReportCustomItem, error)
	DeleteItem(ctx context.Context, reportID, itemID uuid.UUID) error
}

type tasksReportCustomRepo struct {
	db DBTX
}

func NewTasksReportCustomRepo(db DBTX) TasksReportCustomRepository {
	return &tasksReportCustomRepo{db: db}
}

const tasksReportCustomColumns = `rc.id, rc.customer_id, rc.location_id, rc.name, rc.description, rc.created_by,
	rc.created_at, rc.updated_at`

var tasksReportCustomSorts = sortFields{
	fields:   map[string]string{"name": "rc.name", "createdAt": "rc.created_at"},
	fallback: "name",
	tieBreak: "rc.id",
}

func scanTasksReportCustom(row scanner) (*models.TasksReportCustom, error) {
	rc := &models.TasksReportCustom{}
	err := row.Scan(&rc.ID, &rc.CustomerID, &rc.LocationID, &rc.Name, &rc.Description, &rc.CreatedBy, &rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (r *tasksReportCustomRepo) Create(ctx context.Context, report *models.TasksReportCustom) error {
	query := `
		INSERT INTO tasks_report_customs (id, customer_id, location_id, name, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, report.ID, report.CustomerID, report.LocationID, report.Name, report.Description,
		report.CreatedBy).Scan(&report.CreatedAt, &report.UpdatedAt)
}

func (r *tasksReportCustomRepo) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.TasksReportCustom, error) {
	query := `SELECT ` + tasksReportCustomColumns + ` FROM tasks_report_customs rc
		WHERE rc.customer_id = $1 AND rc.id = $2 AND rc.deleted_at IS NULL`
	rc, err := scanTasksReportCustom(r.db.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return nil, notFound(err, "custom task report")
	}
	return rc, nil
}

func (r *tasksReportCustomRepo) Update(ctx context.Context, report *models.TasksReportCustom) error {
	query := `
		UPDATE tasks_report_customs SET location_id = $1, name = $2, description = $3, updated_at = NOW()
		WHERE customer_id = $4 AND id = $5 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, report.LocationID, report.Name, report.Description, report.CustomerID, report.ID)
	return affectedOne(tag, err, "custom task report")
}

func (r *tasksReportCustomRepo) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE tasks_report_customs SET deleted_at = NOW() WHERE customer_id = $1 AND id = $2 AND deleted_at IS NULL`,
		customerID, id)
	return affectedOne(tag, err, "custom task report")
}

func (r *tasksReportCustomRepo) List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.TasksReportCustomFilters, params common.ListParams) ([]*models.TasksReportCustom, int, error) {
	q := newListQuery(tasksReportCustomColumns, "tasks_report_customs rc", "rc.customer_id", customerID)
	q.where("rc.deleted_at IS NULL")
	if scope.Restricted {
		if len(scope.LocationIDs) == 0 {
			q.where("rc.location_id IS NULL")
		} else {
			q.where("(rc.location_id IS NULL OR rc.location_id = ANY(?))", scope.LocationIDs)
		}
	}
	q.search(params.Search, "rc.name", "rc.description")
	eq(q, "rc.location_id", filters.LocationID)
	eq(q, "rc.created_by", filters.CreatedBy)
	return runList(ctx, r.db, q, params, tasksReportCustomSorts, scanTasksReportCustom)
}

// AddItem appends a task at the end of the report unless Position is set.
func (r *tasksReportCustomRepo) AddItem(ctx context.Context, item *models.TasksReportCustomItem) error {
	query := `
		INSERT INTO tasks_report_custom_items (id, report_id, task_id, position, created_at)
		VALUES ($1, $2, $3,
			CASE WHEN $4 > 0 THEN $4 ELSE (SELECT COALESCE(MAX(position), 0) + 1 FROM tasks_report_custom_items WHERE report_id = $2) END,
			NOW())
		RETURNING position, created_at
	`
	err := r.db.QueryRow(ctx, query, item.ID, item.ReportID, item.TaskID, item.Position).Scan(&item.Position, &item.CreatedAt)
	return uniqueConflict(err, "task already in report")
}

func (r *tasksReportCustomRepo) ListItems(ctx context.Context, reportID uuid.UUID) ([]*models.TasksReportCustomItem, error) {
	query := `
		SELECT i.id, i.report_id, i.task_id, i.position, t.title, i.created_at
		FROM tasks_report_custom_items i JOIN tasks t ON t.id = i.task_id
		WHERE i.report_id = $1 AND t.deleted_at IS NULL
		ORDER BY i.position, i.id
	`
	rows, err := r.db.Query(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row scanner) (*models.TasksReportCustomItem, error) {
		item := &models.TasksReportCustomItem{}
		if err := row.Scan(&item.ID, &item.ReportID, &item.TaskID, &item.Position, &item.TaskTitle, &item.CreatedAt); err != nil {
			return nil, err
		}
		return item, nil
	})
}

func (r *tasksReportCustomRepo) DeleteItem(ctx context.Context, reportID, itemID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks_report_custom_items WHERE report_id = $1 AND id = $2`, reportID, itemID)
	return affectedOne(tag, err, "custom task report item")
}
