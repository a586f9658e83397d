package services

import (
	"context"
	"log/slog"

	"github.com/blogem/tmoid/authenticator"
	"github.com/blogem/tmoid/models"
	"github.com/blogem/tmoid/repositories"
)

// AuditService records authentication outcomes
type AuditService interface {
	RecordOutcome(ctx context.Context, provider string, out authenticator.Outcome, userAgent, ip string)
	RecentForUser(ctx context.Context, userID int64, limit int) ([]models.LoginAttempt, error)
}

type auditService struct {
	repo repositories.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(repo repositories.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// RecordOutcome stores a login attempt. Failures are logged, not returned.
func (s *auditService) RecordOutcome(ctx context.Context, provider string, out authenticator.Outcome, userAgent, ip string) {
	attempt := &models.LoginAttempt{
		AttemptID:  out.AttemptID,
		Provider:   provider,
		Outcome:    out.Kind.String(),
		Reason:     out.Reason,
		StatusCode: out.StatusCode,
		UserAgent:  userAgent,
		IPAddress:  ip,
	}
	if out.Kind == authenticator.OutcomeError && out.Err != nil {
		attempt.Reason = out.Err.Error()
	}
	if user, ok := out.User.(*models.User); ok {
		attempt.UserID = &user.ID
	}

	if err := s.repo.Create(ctx, attempt); err != nil {
		slog.ErrorContext(ctx, "failed to record login attempt", "attempt_id", out.AttemptID, "error", err)
	}
}

// RecentForUser returns the latest login attempts of one user
func (s *auditService) RecentForUser(ctx context.Context, userID int64, limit int) ([]models.LoginAttempt, error) {
	return s.repo.RecentForUser(ctx, userID, limit)
}
