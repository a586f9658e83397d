// Package authenticator implements the authorization code callback of an OAuth2-style
// provider: it exchanges the code for an access token and lets a caller-supplied verify
// callback turn the grant into an application user.
//
//	s, err := authenticator.New(authenticator.Config{
//		RedirectURI:  "https://localhost:3000/auth/tmoid/callback",
//		TokenHost:    "token.tmus.net",
//		TokenPath:    "/oauth2/v1/token",
//		ClientID:     clientID,
//		ClientSecret: clientSecret,
//		Verify: func(ctx context.Context, g authenticator.Grant) (any, authenticator.Info, error) {
//			...
//		},
//	})
//
//	out := s.Authenticate(r)
package authenticator

import (
	"net/http"

	"golang.org/x/oauth2"
)

// Provider abstracts the strategy for HTTP handlers
type Provider interface {
	Name() string
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Authenticate(r *http.Request, opts ...AuthenticateOption) Outcome
}

var _ Provider = (*Strategy)(nil)
