package repositories

import (
	"context"

	"taskboard/internal/models"

	"github.com/google/uuid"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetByDomain(ctx context.Context, domain string) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	ListActive(ctx context.Context) ([]*models.Customer, error)
}

type customerRepo struct {
	db DBTX
}

func NewCustomerRepo(db DBTX) CustomerRepository {
	return &customerRepo{db: db}
}

const customerColumns = `id, name, domain, active, created_at, updated_at`

func scanCustomer(row scanner) (*models.Customer, error) {
	c := &models.Customer{}
	err := row.Scan(&c.ID, &c.Name, &c.Domain, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, name, domain, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, customer.ID, customer.Name, customer.Domain, customer.Active).
		Scan(&customer.CreatedAt, &customer.UpdatedAt)
	return uniqueConflict(err, "domain already registered")
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "customer")
	}
	return c, nil
}

// GetByDomain matches case-insensitively; inactive customers are not returned.
func (r *customerRepo) GetByDomain(ctx context.Context, domain string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE LOWER(domain) = LOWER($1) AND active = TRUE`
	c, err := scanCustomer(r.db.QueryRow(ctx, query, domain))
	if err != nil {
		return nil, notFound(err, "customer")
	}
	return c, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, domain = $2, updated_at = NOW()
		WHERE id = $3
	`
	tag, err := r.db.Exec(ctx, query, customer.Name, customer.Domain, customer.ID)
	if err != nil {
		return uniqueConflict(err, "domain already registered")
	}
	return affectedOne(tag, nil, "customer")
}

func (r *customerRepo) ListActive(ctx context.Context) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE active = TRUE ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCustomer)
}
