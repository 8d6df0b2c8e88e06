package repositories

import (
	"context"

	"taskboard/internal/models"

	"github.com/google/uuid"
)

// CredRepository reads and seeds the global capability codes.
type CredRepository interface {
	Upsert(ctx context.Context, cred *models.Cred) error
	List(ctx context.Context) ([]*models.Cred, error)
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int, error)
}

type credRepo struct {
	db DBTX
}

func NewCredRepo(db DBTX) CredRepository {
	return &credRepo{db: db}
}

func scanCred(row scanner) (*models.Cred, error) {
	c := &models.Cred{}
	if err := row.Scan(&c.ID, &c.Code, &c.Description); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *credRepo) Upsert(ctx context.Context, cred *models.Cred) error {
	query := `
		INSERT INTO creds (id, code, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET description = EXCLUDED.description
		RETURNING id
	`
	return r.db.QueryRow(ctx, query, cred.ID, cred.Code, cred.Description).Scan(&cred.ID)
}

func (r *credRepo) List(ctx context.Context) ([]*models.Cred, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, description FROM creds ORDER BY code`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCred)
}

func (r *credRepo) CountByIDs(ctx context.Context, ids []uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM creds WHERE id = ANY($1)`, ids).Scan(&n)
	return n, err
}
