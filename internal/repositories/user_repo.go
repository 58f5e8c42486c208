package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/MananRajppout/newamplify/internal/common"
	"github.com/MananRajppout/newamplify/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it in tests.
type Database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// UserRepository is the durable user record store. Every update statement
// is column-scoped: credential writes never touch billing-owned columns
// (credits, stripe_customer_id) and vice versa.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetEmailVerified(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, first_name, last_name, email, phone_number, company_name, password_hash,
		role, status, is_email_verified, is_deleted, created_by, terms_accepted, terms_accepted_time,
		credits, stripe_customer_id, created_at, updated_at`

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, phone_number, company_name, password_hash,
			role, status, is_email_verified, is_deleted, created_by, terms_accepted, terms_accepted_time,
			credits, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.PhoneNumber, user.CompanyName,
		user.PasswordHash, user.Role, user.Status, user.IsEmailVerified, user.IsDeleted,
		user.CreatedBy, user.TermsAccepted, user.TermsAcceptedTime, user.Credits)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByEmail matches the address exactly as stored.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE email = $1`
	if err := r.db.QueryRow(ctx, query, email).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	return count > 0, nil
}

// UpdateProfile writes the editable profile columns only. Credential,
// flag and billing columns keep their stored values.
func (r *userRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, phone_number = $4, company_name = $5, role = $6,
			status = $7, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName, user.PhoneNumber, user.CompanyName, user.Role, user.Status)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *userRepo) SetEmailVerified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET is_email_verified = TRUE, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to set email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// SoftDelete flags the record; rows are never physically removed here.
func (r *userRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *userRepo) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PhoneNumber, &user.CompanyName,
		&user.PasswordHash, &user.Role, &user.Status, &user.IsEmailVerified, &user.IsDeleted,
		&user.CreatedBy, &user.TermsAccepted, &user.TermsAcceptedTime,
		&user.Credits, &user.StripeCustomerID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}
