package repositories

import (
	"context"

	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID, filters models.ProfileFilters, params common.ListParams) ([]*models.Profile, int, error)
	ListCreds(ctx context.Context, profileID uuid.UUID) ([]*models.Cred, error)
	ReplaceCreds(ctx context.Context, profileID uuid.UUID, credIDs []uuid.UUID) error
	CountSecurities(ctx context.Context, customerID, id uuid.UUID) (int, error)
}

type profileRepo struct {
	db DBTX
}

func NewProfileRepo(db DBTX) ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `p.id, p.customer_id, p.location_id, p.name, p.description, p.created_at, p.updated_at`

var profileSorts = sortFields{
	fields:   map[string]string{"name": "p.name", "createdAt": "p.created_at"},
	fallback: "name",
	tieBreak: "p.id",
}

func scanProfile(row scanner) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(&p.ID, &p.CustomerID, &p.LocationID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *profileRepo) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, customer_id, location_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, profile.ID, profile.CustomerID, profile.LocationID, profile.Name,
		profile.Description).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	return uniqueConflict(err, "profile name already taken")
}

func (r *profileRepo) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE p.customer_id = $1 AND p.id = $2 AND p.deleted_at IS NULL`
	p, err := scanProfile(r.db.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return p, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET location_id = $1, name = $2, description = $3, updated_at = NOW()
		WHERE customer_id = $4 AND id = $5 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, profile.LocationID, profile.Name, profile.Description, profile.CustomerID, profile.ID)
	if err != nil {
		return uniqueConflict(err, "profile name already taken")
	}
	return affectedOne(tag, nil, "profile")
}

func (r *profileRepo) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	query := `UPDATE profiles SET deleted_at = NOW() WHERE customer_id = $1 AND id = $2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, customerID, id)
	return affectedOne(tag, err, "profile")
}

func (r *profileRepo) List(ctx context.Context, customerID uuid.UUID, filters models.ProfileFilters, params common.ListParams) ([]*models.Profile, int, error) {
	q := newListQuery(profileColumns, "profiles p", "p.customer_id", customerID)
	q.where("p.deleted_at IS NULL")
	q.search(params.Search, "p.name", "p.description")
	eq(q, "p.location_id", filters.LocationID)
	return runList(ctx, r.db, q, params, profileSorts, scanProfile)
}

func (r *profileRepo) ListCreds(ctx context.Context, profileID uuid.UUID) ([]*models.Cred, error) {
	query := `
		SELECT c.id, c.code, c.description
		FROM creds c JOIN profile_creds pc ON pc.cred_id = c.id
		WHERE pc.profile_id = $1
		ORDER BY c.code
	`
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCred)
}

// ReplaceCreds swaps the full grant list of a profile in one transaction.
func (r *profileRepo) ReplaceCreds(ctx context.Context, profileID uuid.UUID, credIDs []uuid.UUID) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM profile_creds WHERE profile_id = $1`, profileID); err != nil {
			return err
		}
		for _, credID := range credIDs {
			if _, err := tx.Exec(ctx, `INSERT INTO profile_creds (profile_id, cred_id) VALUES ($1, $2)`, profileID, credID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *profileRepo) CountSecurities(ctx context.Context, customerID, id uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM securities WHERE customer_id = $1 AND profile_id = $2`, customerID, id).Scan(&n)
	return n, err
}
