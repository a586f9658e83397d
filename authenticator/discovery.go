package authenticator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Discover fills the endpoints of cfg from the issuer's OpenID discovery document.
// Endpoints already set on cfg are kept. The result still has to go through New.
func Discover(ctx context.Context, issuer string, cfg Config) (Config, error) {
	if issuer == "" {
		return cfg, errors.New("issuer is required")
	}
	if !strings.Contains(issuer, "://") {
		issuer = "https://" + issuer + "/"
	}

	if client, ok := cfg.HTTPClient.(*http.Client); ok {
		ctx = oidc.ClientContext(ctx, client)
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return cfg, fmt.Errorf("failed to discover provider %s: %w", issuer, err)
	}

	endpoint := provider.Endpoint()
	if cfg.AuthURL == "" {
		cfg.AuthURL = endpoint.AuthURL
	}
	if cfg.TokenURL == "" && cfg.TokenHost == "" && cfg.TokenPath == "" {
		cfg.TokenURL = endpoint.TokenURL
	}

	return cfg, nil
}
