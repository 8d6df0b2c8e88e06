package repositories

import (
	"context"

	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
)

type LicenseRepository interface {
	CreateIndustry(ctx context.Context, industry *models.LicenseIndustry) error
	GetIndustry(ctx context.Context, customerID, id uuid.UUID) (*models.LicenseIndustry, error)
	UpdateIndustry(ctx context.Context, industry *models.LicenseIndustry) error
	DeleteIndustry(ctx context.Context, customerID, id uuid.UUID) error
	ListIndustries(ctx context.Context, customerID uuid.UUID, params common.ListParams) ([]*models.LicenseIndustry, int, error)
	CountIndustryUsers(ctx context.Context, customerID, industryID uuid.UUID) (int, error)

	CreateUser(ctx context.Context, lu *models.LicenseUser) error
	GetUser(ctx context.Context, customerID, id uuid.UUID) (*models.LicenseUser, error)
	UpdateUser(ctx context.Context, lu *models.LicenseUser) error
	DeleteUser(ctx context.Context, customerID, id uuid.UUID) error
	ListUsers(ctx context.Context, customerID uuid.UUID, filters models.LicenseUserFilters, params common.ListParams) ([]*models.LicenseUser, int, error)
}

type licenseRepo struct {
	db DBTX
}

func NewLicenseRepo(db DBTX) LicenseRepository {
	return &licenseRepo{db: db}
}

const (
	licenseIndustryColumns = `li.id, li.customer_id, li.name, li.description, li.created_at, li.updated_at`
	licenseUserColumns     = `lu.id, lu.customer_id, lu.license_industry_id, lu.user_id, lu.license_number, lu.expires_at,
	lu.created_at, lu.updated_at`
)

var (
	licenseIndustrySorts = sortFields{
		fields:   map[string]string{"name": "li.name", "createdAt": "li.created_at"},
		fallback: "name",
		tieBreak: "li.id",
	}
	licenseUserSorts = sortFields{
		fields: map[string]string{
			"licenseNumber": "lu.license_number",
			"expiresAt":     "lu.expires_at",
			"createdAt":     "lu.created_at",
			"industry":      "li.name",
		},
		fallback: "expiresAt",
		tieBreak: "lu.id",
	}
)

func scanLicenseIndustry(row scanner) (*models.LicenseIndustry, error) {
	li := &models.LicenseIndustry{}
	if err := row.Scan(&li.ID, &li.CustomerID, &li.Name, &li.Description, &li.CreatedAt, &li.UpdatedAt); err != nil {
		return nil, err
	}
	return li, nil
}

func scanLicenseUser(row scanner) (*models.LicenseUser, error) {
	lu := &models.LicenseUser{}
	err := row.Scan(&lu.ID, &lu.CustomerID, &lu.LicenseIndustryID, &lu.UserID, &lu.LicenseNumber, &lu.ExpiresAt,
		&lu.CreatedAt, &lu.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return lu, nil
}

func (r *licenseRepo) CreateIndustry(ctx context.Context, industry *models.LicenseIndustry) error {
	query := `
		INSERT INTO license_industries (id, customer_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, industry.ID, industry.CustomerID, industry.Name, industry.Description).
		Scan(&industry.CreatedAt, &industry.UpdatedAt)
	return uniqueConflict(err, "license industry already exists")
}

func (r *licenseRepo) GetIndustry(ctx context.Context, customerID, id uuid.UUID) (*models.LicenseIndustry, error) {
	query := `SELECT ` + licenseIndustryColumns + ` FROM license_industries li
		WHERE li.customer_id = $1 AND li.id = $2 AND li.deleted_at IS NULL`
	li, err := scanLicenseIndustry(r.db.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return nil, notFound(err, "license industry")
	}
	return li, nil
}

func (r *licenseRepo) UpdateIndustry(ctx context.Context, industry *models.LicenseIndustry) error {
	query := `
		UPDATE license_industries SET name = $1, description = $2, updated_at = NOW()
		WHERE customer_id = $3 AND id = $4 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, industry.Name, industry.Description, industry.CustomerID, industry.ID)
	if err != nil {
		return uniqueConflict(err, "license industry already exists")
	}
	return affectedOne(tag, nil, "license industry")
}

func (r *licenseRepo) DeleteIndustry(ctx context.Context, customerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE license_industries SET deleted_at = NOW() WHERE customer_id = $1 AND id = $2 AND deleted_at IS NULL`,
		customerID, id)
	return affectedOne(tag, err, "license industry")
}

func (r *licenseRepo) ListIndustries(ctx context.Context, customerID uuid.UUID, params common.ListParams) ([]*models.LicenseIndustry, int, error) {
	q := newListQuery(licenseIndustryColumns, "license_industries li", "li.customer_id", customerID)
	q.where("li.deleted_at IS NULL")
	q.search(params.Search, "li.name", "li.description")
	return runList(ctx, r.db, q, params, licenseIndustrySorts, scanLicenseIndustry)
}

func (r *licenseRepo) CountIndustryUsers(ctx context.Context, customerID, industryID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM license_users WHERE customer_id = $1 AND license_industry_id = $2 AND deleted_at IS NULL`,
		customerID, industryID).Scan(&n)
	return n, err
}

func (r *licenseRepo) CreateUser(ctx context.Context, lu *models.LicenseUser) error {
	query := `
		INSERT INTO license_users (id, customer_id, license_industry_id, user_id, license_number, expires_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, lu.ID, lu.CustomerID, lu.LicenseIndustryID, lu.UserID, lu.LicenseNumber,
		lu.ExpiresAt).Scan(&lu.CreatedAt, &lu.UpdatedAt)
}

func (r *licenseRepo) GetUser(ctx context.Context, customerID, id uuid.UUID) (*models.LicenseUser, error) {
	query := `SELECT ` + licenseUserColumns + ` FROM license_users lu
		WHERE lu.customer_id = $1 AND lu.id = $2 AND lu.deleted_at IS NULL`
	lu, err := scanLicenseUser(r.db.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return nil, notFound(err, "license user")
	}
	return lu, nil
}

func (r *licenseRepo) UpdateUser(ctx context.Context, lu *models.LicenseUser) error {
	query := `
		UPDATE license_users
		SET license_industry_id = $1, user_id = $2, license_number = $3, expires_at = $4, updated_at = NOW()
		WHERE customer_id = $5 AND id = $6 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, lu.LicenseIndustryID, lu.UserID, lu.LicenseNumber, lu.ExpiresAt, lu.CustomerID, lu.ID)
	return affectedOne(tag, err, "license user")
}

func (r *licenseRepo) DeleteUser(ctx context.Context, customerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE license_users SET deleted_at = NOW() WHERE customer_id = $1 AND id = $2 AND deleted_at IS NULL`,
		customerID, id)
	return affectedOne(tag, err, "license user")
}

func (r *licenseRepo) ListUsers(ctx context.Context, customerID uuid.UUID, filters models.LicenseUserFilters, params common.ListParams) ([]*models.LicenseUser, int, error) {
	q := newListQuery(licenseUserColumns, "license_users lu JOIN license_industries li ON li.id = lu.license_industry_id",
		"lu.customer_id", customerID)
	q.where("lu.deleted_at IS NULL")
	q.search(params.Search, "lu.license_number", "li.name")
	eq(q, "lu.license_industry_id", filters.LicenseIndustryID)
	eq(q, "lu.user_id", filters.UserID)
	if filters.ExpiresFrom != nil && filters.ExpiresTo != nil {
		q.where("lu.expires_at BETWEEN ? AND ?", *filters.ExpiresFrom, *filters.ExpiresTo)
	}
	return runList(ctx, r.db, q, params, licenseUserSorts, scanLicenseUser)
}
