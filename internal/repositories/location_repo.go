package repositories

import (
	"context"

	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
)

type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Location, error)
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.LocationFilters, params common.ListParams) ([]*models.Location, int, error)
	ListSchedulerActive(ctx context.Context, customerID uuid.UUID) ([]*models.Location, error)
}

type locationRepo struct {
	db DBTX
}

func NewLocationRepo(db DBTX) LocationRepository {
	return &locationRepo{db: db}
}

const locationColumns = `l.id, l.customer_id, l.name, l.address, l.scheduler_active, l.default_user_id,
	NULLIF(TRIM(COALESCE(du.first_name, '') || ' ' || COALESCE(du.last_name, '')), ''), l.created_at, l.updated_at`

const locationFrom = `locations l LEFT JOIN users du ON du.id = l.default_user_id`

var locationSorts = sortFields{
	fields: map[string]string{
		"name":        "l.name",
		"createdAt":   "l.created_at",
		"defaultUser": "du.last_name",
	},
	fallback: "name",
	tieBreak: "l.id",
}

func scanLocation(row scanner) (*models.Location, error) {
	l := &models.Location{}
	err := row.Scan(&l.ID, &l.CustomerID, &l.Name, &l.Address, &l.SchedulerActive, &l.DefaultUserID,
		&l.DefaultUserName, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *locationRepo) Create(ctx context.Context, location *models.Location) error {
	query := `
		INSERT INTO locations (id, customer_id, name, address, scheduler_active, default_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, location.ID, location.CustomerID, location.Name, location.Address,
		location.SchedulerActive, location.DefaultUserID).Scan(&location.CreatedAt, &location.UpdatedAt)
}

func (r *locationRepo) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM ` + locationFrom + `
		WHERE l.customer_id = $1 AND l.id = $2 AND l.deleted_at IS NULL`
	l, err := scanLocation(r.db.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return nil, notFound(err, "location")
	}
	return l, nil
}

func (r *locationRepo) Update(ctx context.Context, location *models.Location) error {
	query := `
		UPDATE locations
		SET name = $1, address = $2, scheduler_active = $3, default_user_id = $4, updated_at = NOW()
		WHERE customer_id = $5 AND id = $6 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, location.Name, location.Address, location.SchedulerActive,
		location.DefaultUserID, location.CustomerID, location.ID)
	return affectedOne(tag, err, "location")
}

func (r *locationRepo) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	query := `UPDATE locations SET deleted_at = NOW() WHERE customer_id = $1 AND id = $2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, customerID, id)
	return affectedOne(tag, err, "location")
}

func (r *locationRepo) List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.LocationFilters, params common.ListParams) ([]*models.Location, int, error) {
	q := newListQuery(locationColumns, locationFrom, "l.customer_id", customerID)
	q.where("l.deleted_at IS NULL")
	q.scope("l.id", scope)
	q.search(params.Search, "l.name", "l.address")
	eq(q, "l.scheduler_active", filters.SchedulerActive)
	return runList(ctx, r.db, q, params, locationSorts, scanLocation)
}

func (r *locationRepo) ListSchedulerActive(ctx context.Context, customerID uuid.UUID) ([]*models.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM ` + locationFrom + `
		WHERE l.customer_id = $1 AND l.scheduler_active = TRUE AND l.deleted_at IS NULL
		ORDER BY l.name`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanLocation)
}
