package repositories

import (
	"context"

	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
)

type LegalRefRepository interface {
	Create(ctx context.Context, ref *models.LegalRef) error
	GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.LegalRef, error)
	Update(ctx context.Context, ref *models.LegalRef) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID, filters models.LegalRefFilters, params common.ListParams) ([]*models.LegalRef, int, error)
}

type legalRefRepo struct {
	db DBTX
}

func NewLegalRefRepo(db DBTX) LegalRefRepository {
	return &legalRefRepo{db: db}
}

const legalRefColumns = `lr.id, lr.customer_id, lr.code, lr.title, lr.url, lr.jurisdiction, lr.created_at, lr.updated_at`

var legalRefSorts = sortFields{
	fields:   map[string]string{"code": "lr.code", "title": "lr.title", "jurisdiction": "lr.jurisdiction", "createdAt": "lr.created_at"},
	fallback: "code",
	tieBreak: "lr.id",
}

func scanLegalRef(row scanner) (*models.LegalRef, error) {
	l := &models.LegalRef{}
	err := row.Scan(&l.ID, &l.CustomerID, &l.Code, &l.Title, &l.URL, &l.Jurisdiction, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *legalRefRepo) Create(ctx context.Context, ref *models.LegalRef) error {
	query := `
		INSERT INTO legal_refs (id, customer_id, code, title, url, jurisdiction, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, ref.ID, ref.CustomerID, ref.Code, ref.Title, ref.URL, ref.Jurisdiction).
		Scan(&ref.CreatedAt, &ref.UpdatedAt)
	return uniqueConflict(err, "legal reference code already exists")
}

func (r *legalRefRepo) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.LegalRef, error) {
	query := `SELECT ` + legalRefColumns + ` FROM legal_refs lr WHERE lr.customer_id = $1 AND lr.id = $2 AND lr.deleted_at IS NULL`
	l, err := scanLegalRef(r.db.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return nil, notFound(err, "legal reference")
	}
	return l, nil
}

func (r *legalRefRepo) Update(ctx context.Context, ref *models.LegalRef) error {
	query := `
		UPDATE legal_refs SET code = $1, title = $2, url = $3, jurisdiction = $4, updated_at = NOW()
		WHERE customer_id = $5 AND id = $6 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, ref.Code, ref.Title, ref.URL, ref.Jurisdiction, ref.CustomerID, ref.ID)
	if err != nil {
		return uniqueConflict(err, "legal reference code already exists")
	}
	return affectedOne(tag, nil, "legal reference")
}

func (r *legalRefRepo) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE legal_refs SET deleted_at = NOW() WHERE customer_id = $1 AND id = $2 AND deleted_at IS NULL`, customerID, id)
	return affectedOne(tag, err, "legal reference")
}

func (r *legalRefRepo) List(ctx context.Context, customerID uuid.UUID, filters models.LegalRefFilters, params common.ListParams) ([]*models.LegalRef, int, error) {
	q := newListQuery(legalRefColumns, "legal_refs lr", "lr.customer_id", customerID)
	q.where("lr.deleted_at IS NULL")
	q.search(params.Search, "lr.code", "lr.title")
	eq(q, "lr.jurisdiction", filters.Jurisdiction)
	return runList(ctx, r.db, q, params, legalRefSorts, scanLegalRef)
}
