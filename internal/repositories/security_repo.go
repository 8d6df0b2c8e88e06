package repositories

import (
	"context"

	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
)

type SecurityRepository interface {
	Create(ctx context.Context, security *models.Security) error
	GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Security, error)
	Update(ctx context.Context, security *models.Security) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID, filters models.SecurityFilters, params common.ListParams) ([]*models.Security, int, error)
	LocationIDsForUser(ctx context.Context, customerID, userID uuid.UUID) ([]uuid.UUID, error)
	UserHasCred(ctx context.Context, customerID, userID uuid.UUID, code string, locationID *uuid.UUID) (bool, error)
}

type securityRepo struct {
	db DBTX
}

func NewSecurityRepo(db DBTX) SecurityRepository {
	return &securityRepo{db: db}
}

const securityColumns = `s.id, s.customer_id, s.user_id, s.location_id, s.profile_id,
	TRIM(u.first_name || ' ' || u.last_name), l.name, p.name, s.created_at, s.updated_at`

const securityFrom = `securities s
	JOIN users u ON u.id = s.user_id
	JOIN locations l ON l.id = s.location_id
	JOIN profiles p ON p.id = s.profile_id`

var securitySorts = sortFields{
	fields: map[string]string{
		"user":      "u.last_name",
		"location":  "l.name",
		"profile":   "p.name",
		"createdAt": "s.created_at",
	},
	fallback: "user",
	tieBreak: "s.id",
}

func scanSecurity(row scanner) (*models.Security, error) {
	s := &models.Security{}
	err := row.Scan(&s.ID, &s.CustomerID, &s.UserID, &s.LocationID, &s.ProfileID,
		&s.UserName, &s.LocationName, &s.ProfileName, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *securityRepo) Create(ctx context.Context, security *models.Security) error {
	query := `
		INSERT INTO securities (id, customer_id, user_id, location_id, profile_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, security.ID, security.CustomerID, security.UserID, security.LocationID,
		security.ProfileID).Scan(&security.CreatedAt, &security.UpdatedAt)
	return uniqueConflict(err, "user already has a security row at this location")
}

func (r *securityRepo) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Security, error) {
	query := `SELECT ` + securityColumns + ` FROM ` + securityFrom + ` WHERE s.customer_id = $1 AND s.id = $2`
	s, err := scanSecurity(r.db.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return nil, notFound(err, "security")
	}
	return s, nil
}

func (r *securityRepo) Update(ctx context.Context, security *models.Security) error {
	query := `
		UPDATE securities
		SET user_id = $1, location_id = $2, profile_id = $3, updated_at = NOW()
		WHERE customer_id = $4 AND id = $5
	`
	tag, err := r.db.Exec(ctx, query, security.UserID, security.LocationID, security.ProfileID, security.CustomerID, security.ID)
	if err != nil {
		return uniqueConflict(err, "user already has a security row at this location")
	}
	return affectedOne(tag, nil, "security")
}

func (r *securityRepo) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM securities WHERE customer_id = $1 AND id = $2`, customerID, id)
	return affectedOne(tag, err, "security")
}

func (r *securityRepo) List(ctx context.Context, customerID uuid.UUID, filters models.SecurityFilters, params common.ListParams) ([]*models.Security, int, error) {
	q := newListQuery(securityColumns, securityFrom, "s.customer_id", customerID)
	q.search(params.Search, "u.login_name", "u.last_name", "l.name", "p.name")
	eq(q, "s.user_id", filters.UserID)
	eq(q, "s.location_id", filters.LocationID)
	eq(q, "s.profile_id", filters.ProfileID)
	return runList(ctx, r.db, q, params, securitySorts, scanSecurity)
}

// LocationIDsForUser returns the distinct live locations a user holds a security row at.
func (r *securityRepo) LocationIDsForUser(ctx context.Context, customerID, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT s.location_id
		FROM securities s JOIN locations l ON l.id = s.location_id
		WHERE s.customer_id = $1 AND s.user_id = $2 AND l.deleted_at IS NULL
	`
	rows, err := r.db.Query(ctx, query, customerID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UserHasCred checks the user's profiles for code, at one location when locationID is set.
func (r *securityRepo) UserHasCred(ctx context.Context, customerID, userID uuid.UUID, code string, locationID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM securities s
			JOIN profile_creds pc ON pc.profile_id = s.profile_id
			JOIN creds c ON c.id = pc.cred_id
			WHERE s.customer_id = $1 AND s.user_id = $2 AND c.code = $3
				AND ($4::uuid IS NULL OR s.location_id = $4)
		)
	`
	var ok bool
	err := r.db.QueryRow(ctx, query, customerID, userID, code, locationID).Scan(&ok)
	return ok, err
}
