package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/blogem/tmoid/models"
)

// UserRepository interface defines user database operations
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByProviderID(ctx context.Context, provider, providerID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateToken(ctx context.Context, user *models.User) error
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, provider, provider_id, display_name, access_token, token_type,
		       token_expires_at, scope, created_at, last_login_at`

// GetByID retrieves a user by primary key
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByProviderID retrieves the user linked to a provider identity
func (r *userRepository) GetByProviderID(ctx context.Context, provider, providerID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE provider = ? AND provider_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, provider, providerID))
}

// Create inserts a new user and sets its ID
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (provider, provider_id, display_name, access_token, token_type,
		                   token_expires_at, scope, created_at, last_login_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		user.Provider,
		user.ProviderID,
		user.DisplayName,
		user.AccessToken,
		user.TokenType,
		nullTime(user.TokenExpiresAt),
		user.Scope,
		now,
		nullTime(user.LastLoginAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user ID: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	return nil
}

// UpdateToken stores the latest grant and login time of a user
func (r *userRepository) UpdateToken(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET access_token = ?, token_type = ?, token_expires_at = ?, scope = ?, last_login_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		user.AccessToken,
		user.TokenType,
		nullTime(user.TokenExpiresAt),
		user.Scope,
		nullTime(user.LastLoginAt),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user with ID %d: %w", user.ID, ErrNotFound)
	}

	return nil
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, error) {
	var user models.User
	var expiresAt, lastLoginAt sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Provider,
		&user.ProviderID,
		&user.DisplayName,
		&user.AccessToken,
		&user.TokenType,
		&expiresAt,
		&user.Scope,
		&user.CreatedAt,
		&lastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if expiresAt.Valid {
		user.TokenExpiresAt = &expiresAt.Time
	}
	if lastLoginAt.Valid {
		user.LastLoginAt = &lastLoginAt.Time
	}

	return &user, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
