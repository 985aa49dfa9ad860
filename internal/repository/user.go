package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tradegate/tradegate/internal/model"
)

// Constraint names from migrations/000001_users.up.sql.
const (
	userEmailConstraint = "users_email_key"
	userPhoneConstraint = "users_phone_key"
)

// Common errors for user repository operations. The conflict errors
// are distinct so callers can report which field collided.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrPhoneExists     = errors.New("phone already exists")
	ErrUniqueViolation = errors.New("uniqueness violation")
)

// CreateUser inserts a new user into the database. A duplicate email
// or phone surfaces as the matching conflict error; any other unique
// violation maps to the generic one.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, country, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Country,
		user.Phone,
		user.CreatedAt,
	)

	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			switch constraint {
			case userEmailConstraint:
				return ErrEmailExists
			case userPhoneConstraint:
				return ErrPhoneExists
			default:
				return ErrUniqueViolation
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, country, phone, created_at
		FROM users
		WHERE email = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Country,
		&user.Phone,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// CountUsers returns the number of local user records.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
