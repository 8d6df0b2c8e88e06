package repositories

import (
	"context"

	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
)

type AssessmentRepository interface {
	Create(ctx context.Context, info *models.TasksAssessmentInfo) error
	GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.TasksAssessmentInfo, error)
	Update(ctx context.Context, info *models.TasksAssessmentInfo) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.AssessmentFilters, params common.ListParams) ([]*models.TasksAssessmentInfo, int, error)
}

type assessmentRepo struct {
	db DBTX
}

func NewAssessmentRepo(db DBTX) AssessmentRepository {
	return &assessmentRepo{db: db}
}

const assessmentColumns = `a.id, a.customer_id, a.task_id, a.score, a.max_score, a.notes, a.assessed_by, a.created_at, a.updated_at`

var assessmentSorts = sortFields{
	fields:   map[string]string{"score": "a.score", "createdAt": "a.created_at", "task": "t.title"},
	fallback: "createdAt",
	tieBreak: "a.id",
}

func scanAssessment(row scanner) (*models.TasksAssessmentInfo, error) {
	a := &models.TasksAssessmentInfo{}
	err := row.Scan(&a.ID, &a.CustomerID, &a.TaskID, &a.Score, &a.MaxScore, &a.Notes, &a.AssessedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assessmentRepo) Create(ctx context.Context, info *models.TasksAssessmentInfo) error {
	query := `
		INSERT INTO tasks_assessment_infos (id, customer_id, task_id, score, max_score, notes, assessed_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, info.ID, info.CustomerID, info.TaskID, info.Score, info.MaxScore, info.Notes,
		info.AssessedBy).Scan(&info.CreatedAt, &info.UpdatedAt)
}

func (r *assessmentRepo) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.TasksAssessmentInfo, error) {
	query := `SELECT ` + assessmentColumns + ` FROM tasks_assessment_infos a
		WHERE a.customer_id = $1 AND a.id = $2 AND a.deleted_at IS NULL`
	a, err := scanAssessment(r.db.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return nil, notFound(err, "assessment info")
	}
	return a, nil
}

func (r *assessmentRepo) Update(ctx context.Context, info *models.TasksAssessmentInfo) error {
	query := `
		UPDATE tasks_assessment_infos
		SET task_id = $1, score = $2, max_score = $3, notes = $4, assessed_by = $5, updated_at = NOW()
		WHERE customer_id = $6 AND id = $7 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, info.TaskID, info.Score, info.MaxScore, info.Notes, info.AssessedBy, info.CustomerID, info.ID)
	return affectedOne(tag, err, "assessment info")
}

func (r *assessmentRepo) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE tasks_assessment_infos SET deleted_at = NOW() WHERE customer_id = $1 AND id = $2 AND deleted_at IS NULL`,
		customerID, id)
	return affectedOne(tag, err, "assessment info")
}

func (r *assessmentRepo) List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.AssessmentFilters, params common.ListParams) ([]*models.TasksAssessmentInfo, int, error) {
	q := newListQuery(assessmentColumns, "tasks_assessment_infos a JOIN tasks t ON t.id = a.task_id", "a.customer_id", customerID)
	q.where("a.deleted_at IS NULL AND t.deleted_at IS NULL")
	q.scope("t.location_id", scope)
	q.search(params.Search, "a.notes", "t.title")
	eq(q, "a.task_id", filters.TaskID)
	eq(q, "a.assessed_by", filters.AssessedBy)
	return runList(ctx, r.db, q, params, assessmentSorts, scanAssessment)
}
