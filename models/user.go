package models

import (
	"time"
)

// User is an application user linked to a provider identity
type User struct {
	ID             int64      `json:"id" db:"id"`
	Provider       string     `json:"provider" db:"provider"`
	ProviderID     string     `json:"provider_id" db:"provider_id"`
	DisplayName    string     `json:"display_name" db:"display_name"`
	AccessToken    string     `json:"-" db:"access_token"`
	TokenType      string     `json:"token_type" db:"token_type"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" db:"token_expires_at"`
	Scope          string     `json:"scope" db:"scope"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}

// Name returns the name shown in the UI
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.ProviderID
}

// TokenExpired reports whether the stored access token is past its expiry
func (u *User) TokenExpired(now time.Time) bool {
	return u.TokenExpiresAt != nil && !now.Before(*u.TokenExpiresAt)
}
