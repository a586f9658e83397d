package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blogem/tmoid/models"
)

// AuditRepository handles login attempt persistence
type AuditRepository interface {
	Create(ctx context.Context, attempt *models.LoginAttempt) error
	RecentForUser(ctx context.Context, userID int64, limit int) ([]models.LoginAttempt, error)
}

type sqliteAuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &sqliteAuditRepository{db: db}
}

// Create inserts a new login attempt
func (r *sqliteAuditRepository) Create(ctx context.Context, attempt *models.LoginAttempt) error {
	query := `
		INSERT INTO login_attempts (attempt_id, timestamp, provider, outcome, reason, status_code, user_id, user_agent, ip_address)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if attempt.Timestamp.IsZero() {
		attempt.Timestamp = time.Now().UTC()
	}

	var userID sql.NullInt64
	if attempt.UserID != nil {
		userID = sql.NullInt64{Int64: *attempt.UserID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		query,
		attempt.AttemptID,
		attempt.Timestamp,
		attempt.Provider,
		attempt.Outcome,
		attempt.Reason,
		attempt.StatusCode,
		userID,
		attempt.UserAgent,
		attempt.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to create login attempt: %w", err)
	}

	attempt.ID, err = result.LastInsertId()
	return err
}

// RecentForUser returns a user's latest login attempts, newest first
func (r *sqliteAuditRepository) RecentForUser(ctx context.Context, userID int64, limit int) ([]models.LoginAttempt, error) {
	query := `
		SELECT id, attempt_id, timestamp, provider, outcome, reason, status_code, user_id, user_agent, ip_address
		FROM login_attempts
		WHERE user_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query login attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.LoginAttempt
	for rows.Next() {
		var a models.LoginAttempt
		var userID sql.NullInt64
		if err := rows.Scan(
			&a.ID,
			&a.AttemptID,
			&a.Timestamp,
			&a.Provider,
			&a.Outcome,
			&a.Reason,
			&a.StatusCode,
			&userID,
			&a.UserAgent,
			&a.IPAddress,
		); err != nil {
			return nil, fmt.Errorf("failed to scan login attempt: %w", err)
		}
		if userID.Valid {
			id := userID.Int64
			a.UserID = &id
		}
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}
