package repositories

import (
	"context"

	"taskboard/internal/apperrors"
	"taskboard/internal/common"
	"taskboard/internal/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.User, error)
	GetByLoginName(ctx context.Context, customerID uuid.UUID, loginName string) (*models.User, error)
	GetByEmail(ctx context.Context, customerID uuid.UUID, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, customerID, id uuid.UUID, hash, salt string) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.UserFilters, params common.ListParams) ([]*models.User, int, error)
}

type userRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `u.id, u.customer_id, u.login_name, u.email, u.first_name, u.last_name, u.password_hash, u.salt,
	u.active, u.approved, u.notify_email, u.notify_sms, u.user_type, u.default_location_id, u.created_at, u.updated_at`

var userSorts = sortFields{
	fields: map[string]string{
		"loginName": "u.login_name",
		"email":     "u.email",
		"firstName": "u.first_name",
		"lastName":  "u.last_name",
		"createdAt": "u.created_at",
	},
	fallback: "lastName",
	tieBreak: "u.id",
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.CustomerID, &u.LoginName, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Salt,
		&u.Active, &u.Approved, &u.NotifyEmail, &u.NotifySMS, &u.UserType, &u.DefaultLocationID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, customer_id, login_name, email, first_name, last_name, password_hash, salt,
			active, approved, notify_email, notify_sms, user_type, default_location_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, user.ID, user.CustomerID, user.LoginName, user.Email, user.FirstName,
		user.LastName, user.PasswordHash, user.Salt, user.Active, user.Approved, user.NotifyEmail, user.NotifySMS,
		user.UserType, user.DefaultLocationID).Scan(&user.CreatedAt, &user.UpdatedAt)
	return userConflict(err)
}

// userConflict tells a taken email apart from a taken login name.
func userConflict(err error) error {
	return uniqueConflict(constraintConflict(err, "idx_users_email", "email already in use"), "login name already taken")
}

func (r *userRepo) getOne(ctx context.Context, cond string, args ...any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.customer_id = $1 AND ` + cond + ` AND u.deleted_at IS NULL`
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, customerID, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, "u.id = $2", customerID, id)
}

func (r *userRepo) GetByLoginName(ctx context.Context, customerID uuid.UUID, loginName string) (*models.User, error) {
	return r.getOne(ctx, "u.login_name = $2", customerID, loginName)
}

// GetByEmail matches case-insensitively. More than one live match is a conflict
// rather than a guess.
func (r *userRepo) GetByEmail(ctx context.Context, customerID uuid.UUID, email string) (*models.User, error) {
	if email == "" {
		return nil, apperrors.NotFound("user")
	}
	query := `SELECT ` + userColumns + ` FROM users u
		WHERE u.customer_id = $1 AND lower(u.email) = lower($2) AND u.deleted_at IS NULL
		ORDER BY u.created_at, u.id
		LIMIT 2`
	rows, err := r.db.Query(ctx, query, customerID, email)
	if err != nil {
		return nil, err
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, err
	}
	switch len(users) {
	case 0:
		return nil, apperrors.NotFound("user")
	case 1:
		return users[0], nil
	default:
		return nil, apperrors.Conflict("email matches more than one user")
	}
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET login_name = $1, email = $2, first_name = $3, last_name = $4, active = $5, approved = $6,
			notify_email = $7, notify_sms = $8, user_type = $9, default_location_id = $10, updated_at = NOW()
		WHERE customer_id = $11 AND id = $12 AND deleted_at IS NULL
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, user.LoginName, user.Email, user.FirstName, user.LastName, user.Active,
		user.Approved, user.NotifyEmail, user.NotifySMS, user.UserType, user.DefaultLocationID,
		user.CustomerID, user.ID).Scan(&user.UpdatedAt)
	if err != nil {
		return userConflict(notFound(err, "user"))
	}
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, customerID, id uuid.UUID, hash, salt string) error {
	query := `
		UPDATE users SET password_hash = $1, salt = $2, updated_at = NOW()
		WHERE customer_id = $3 AND id = $4 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, hash, salt, customerID, id)
	return affectedOne(tag, err, "user")
}

func (r *userRepo) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NOW() WHERE customer_id = $1 AND id = $2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, customerID, id)
	return affectedOne(tag, err, "user")
}

// List applies the location scope as "shares a Security location with the caller".
func (r *userRepo) List(ctx context.Context, customerID uuid.UUID, scope models.LocationScope, filters models.UserFilters, params common.ListParams) ([]*models.User, int, error) {
	q := newListQuery(userColumns, "users u", "u.customer_id", customerID)
	q.where("u.deleted_at IS NULL")
	if scope.Restricted {
		if len(scope.LocationIDs) == 0 {
			q.where("FALSE")
		} else {
			q.where("EXISTS (SELECT 1 FROM securities s WHERE s.user_id = u.id AND s.location_id = ANY(?))", scope.LocationIDs)
		}
	}
	q.search(params.Search, "u.login_name", "u.email", "u.first_name", "u.last_name")
	eq(q, "u.active", filters.Active)
	eq(q, "u.approved", filters.Approved)
	eq(q, "u.user_type", filters.UserType)
	if filters.LocationID != nil {
		q.where("EXISTS (SELECT 1 FROM securities s WHERE s.user_id = u.id AND s.location_id = ?)", *filters.LocationID)
	}
	return runList(ctx, r.db, q, params, userSorts, scanUser)
}
