package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/blogem/tmoid/authenticator"
	"github.com/blogem/tmoid/models"
	"github.com/blogem/tmoid/repositories"
)

// UserService resolves provider grants into application users
type UserService interface {
	// VerifyGrant is the verify callback handed to the authentication strategy
	VerifyGrant(r *http.Request, grant authenticator.Grant) (any, authenticator.Info, error)
	GetUser(r *http.Request, id int64) (*models.User, error)
}

type userService struct {
	users    repositories.UserRepository
	provider string
	now      func() time.Time
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, provider string) UserService {
	return &userService{
		users:    users,
		provider: provider,
		now:      time.Now,
	}
}

// VerifyGrant finds or creates the user owning the grant's identity and stores the token on it.
func (s *userService) VerifyGrant(r *http.Request, grant authenticator.Grant) (any, authenticator.Info, error) {
	if grant.AccessToken == "" {
		return nil, authenticator.Info{Message: "No token could be retrieved from the server"}, nil
	}
	if grant.IdentityID == "" {
		return nil, authenticator.Info{Message: "The provider did not return an identity"}, nil
	}

	ctx := r.Context()
	now := s.now().UTC()

	user, err := s.users.GetByProviderID(ctx, s.provider, grant.IdentityID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		user = &models.User{
			Provider:   s.provider,
			ProviderID: grant.IdentityID,
		}
		applyGrant(user, grant, now)
		if err := s.users.Create(ctx, user); err != nil {
			return nil, authenticator.Info{}, fmt.Errorf("failed to create user: %w", err)
		}
		slog.InfoContext(ctx, "created user", "user_id", user.ID, "provider", s.provider)
		return user, authenticator.Info{Message: "Welcome!"}, nil

	case err != nil:
		return nil, authenticator.Info{}, fmt.Errorf("failed to look up user: %w", err)
	}

	applyGrant(user, grant, now)
	if err := s.users.UpdateToken(ctx, user); err != nil {
		return nil, authenticator.Info{}, fmt.Errorf("failed to store access token: %w", err)
	}

	return user, authenticator.Info{Message: "Welcome back!"}, nil
}

// GetUser loads the signed-in user
func (s *userService) GetUser(r *http.Request, id int64) (*models.User, error) {
	return s.users.GetByID(r.Context(), id)
}

func applyGrant(user *models.User, grant authenticator.Grant, now time.Time) {
	user.AccessToken = grant.AccessToken
	user.TokenType = grant.TokenType
	user.Scope = grant.Scope
	user.TokenExpiresAt = nil
	if grant.ExpiresIn > 0 {
		expires := now.Add(time.Duration(grant.ExpiresIn) * time.Second)
		user.TokenExpiresAt = &expires
	}
	user.LastLoginAt = &now
}
