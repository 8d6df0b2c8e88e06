package repositories

import (
	"context"

	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
)

type SocialiteClientRepository interface {
	Create(ctx context.Context, client *models.SocialiteClient) error
	GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.SocialiteClient, error)
	GetActiveByProvider(ctx context.Context, customerID uuid.UUID, provider string) (*models.SocialiteClient, error)
	Update(ctx context.Context, client *models.SocialiteClient) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID, filters models.SocialiteClientFilters, params common.ListParams) ([]*models.SocialiteClient, int, error)
}

type socialiteClientRepo struct {
	db DBTX
}

func NewSocialiteClientRepo(db DBTX) SocialiteClientRepository {
	return &socialiteClientRepo{db: db}
}

const socialiteClientColumns = `sc.id, sc.customer_id, sc.provider, sc.client_id, sc.client_secret, sc.tenant_ref,
	sc.redirect_url, sc.active, sc.created_at, sc.updated_at`

var socialiteClientSorts = sortFields{
	fields:   map[string]string{"provider": "sc.provider", "createdAt": "sc.created_at"},
	fallback: "provider",
	tieBreak: "sc.id",
}

func scanSocialiteClient(row scanner) (*models.SocialiteClient, error) {
	c := &models.SocialiteClient{}
	err := row.Scan(&c.ID, &c.CustomerID, &c.Provider, &c.ClientID, &c.ClientSecret, &c.TenantRef,
		&c.RedirectURL, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *socialiteClientRepo) Create(ctx context.Context, client *models.SocialiteClient) error {
	query := `
		INSERT INTO socialite_clients (id, customer_id, provider, client_id, client_secret, tenant_ref,
			redirect_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, client.ID, client.CustomerID, client.Provider, client.ClientID,
		client.ClientSecret, client.TenantRef, client.RedirectURL, client.Active).
		Scan(&client.CreatedAt, &client.UpdatedAt)
	return uniqueConflict(err, "provider already configured")
}

func (r *socialiteClientRepo) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.SocialiteClient, error) {
	query := `SELECT ` + socialiteClientColumns + ` FROM socialite_clients sc WHERE sc.customer_id = $1 AND sc.id = $2`
	c, err := scanSocialiteClient(r.db.QueryRow(ctx, query, customerID, id))
	if err != nil {
		return nil, notFound(err, "socialite client")
	}
	return c, nil
}

func (r *socialiteClientRepo) GetActiveByProvider(ctx context.Context, customerID uuid.UUID, provider string) (*models.SocialiteClient, error) {
	query := `SELECT ` + socialiteClientColumns + ` FROM socialite_clients sc
		WHERE sc.customer_id = $1 AND sc.provider = $2 AND sc.active = TRUE`
	c, err := scanSocialiteClient(r.db.QueryRow(ctx, query, customerID, provider))
	if err != nil {
		return nil, notFound(err, "socialite client")
	}
	return c, nil
}

func (r *socialiteClientRepo) Update(ctx context.Context, client *models.SocialiteClient) error {
	query := `
		UPDATE socialite_clients
		SET client_id = $1, client_secret = $2, tenant_ref = $3, redirect_url = $4, active = $5, updated_at = NOW()
		WHERE customer_id = $6 AND id = $7
	`
	tag, err := r.db.Exec(ctx, query, client.ClientID, client.ClientSecret, client.TenantRef, client.RedirectURL,
		client.Active, client.CustomerID, client.ID)
	return affectedOne(tag, err, "socialite client")
}

func (r *socialiteClientRepo) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM socialite_clients WHERE customer_id = $1 AND id = $2`, customerID, id)
	return affectedOne(tag, err, "socialite client")
}

func (r *socialiteClientRepo) List(ctx context.Context, customerID uuid.UUID, filters models.SocialiteClientFilters, params common.ListParams) ([]*models.SocialiteClient, int, error) {
	q := newListQuery(socialiteClientColumns, "socialite_clients sc", "sc.customer_id", customerID)
	q.search(params.Search, "sc.provider", "sc.client_id")
	eq(q, "sc.provider", filters.Provider)
	eq(q, "sc.active", filters.Active)
	return runList(ctx, r.db, q, params, socialiteClientSorts, scanSocialiteClient)
}
