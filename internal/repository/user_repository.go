package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aptitude-trainer/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// UserRepository defines the interface for user data operations. Lookups
// return (nil, nil) when no user matches, so callers can distinguish absence
// from genuine storage errors.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// sqlxUserRepository implements UserRepository against sqlite using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) UserRepository {
	return &sqlxUserRepository{db: db}
}

// CreateUser inserts a new user into the database.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, display_name, created_at, updated_at)
	          VALUES (:id, :username, :email, :password_hash, :display_name, :created_at, :updated_at)`

	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return r.getOne(ctx, `SELECT * FROM users WHERE id = ?`, userID)
}

func (r *sqlxUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT * FROM users WHERE username = ?`, username)
}

func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT * FROM users WHERE email = ?`, email)
}

func (r *sqlxUserRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found, callers handle this
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateUser updates an existing user's mutable profile fields.
func (r *sqlxUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	query := `UPDATE users SET
	            email = :email,
	            password_hash = :password_hash,
	            display_name = :display_name,
	            updated_at = :updated_at
	          WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
