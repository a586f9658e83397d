package authenticator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ExchangeRequest is the token exchange for a single authentication attempt
type ExchangeRequest struct {
	GrantType    string
	Code         string
	RedirectURI  string
	Host         string
	Path         string
	ClientID     string
	ClientSecret string
}

// NewExchangeRequest builds the exchange of code against the configured token endpoint
func NewExchangeRequest(cfg *Config, code string) ExchangeRequest {
	return ExchangeRequest{
		GrantType:    cfg.GrantType,
		Code:         code,
		RedirectURI:  cfg.RedirectURI,
		Host:         cfg.TokenHost,
		Path:         cfg.TokenPath,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}
}

// Params returns the form-encoded exchange parameters
func (e ExchangeRequest) Params() url.Values {
	return url.Values{
		"grant_type":   {e.GrantType},
		"code":         {e.Code},
		"redirect_uri": {e.RedirectURI},
	}
}

// URL renders https://{host}{path}?{params}
func (e ExchangeRequest) URL() string {
	path := e.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "https://" + e.Host + path + sep + e.Params().Encode()
}

// HTTPRequest renders the POST sent to the token endpoint
func (e ExchangeRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.SetBasicAuth(e.ClientID, e.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return req, nil
}
