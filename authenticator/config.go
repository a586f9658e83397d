package authenticator

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultName is the strategy name used when Config.Name is empty
	DefaultName = "tmoid"

	// DefaultGrantType is the only grant this strategy performs
	DefaultGrantType = "authorization_code"

	// DefaultIdentityField is the token response member holding the user's provider id
	DefaultIdentityField = "tmobileid"

	// DefaultScopeSeparator joins and splits scope lists
	DefaultScopeSeparator = ","

	// DefaultTimeout bounds a single token exchange
	DefaultTimeout = 10 * time.Second
)

// HTTPClient performs the token exchange request
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the provider endpoints, client credentials and verify callback of a strategy
type Config struct {
	// Name identifies the strategy in logs and routes
	Name string

	// TokenHost is the token endpoint host without scheme or path (e.g. "token.tmus.net")
	TokenHost string

	// TokenPath is the token endpoint path (e.g. "/oauth2/v1/token")
	TokenPath string

	// TokenURL may be given instead of TokenHost and TokenPath
	TokenURL string

	// AuthURL is the authorization endpoint users are redirected to
	AuthURL string

	ClientID     string
	ClientSecret string
	RedirectURI  string

	// GrantType defaults to "authorization_code"
	GrantType string

	// IdentityField is the token response member carrying the user id
	IdentityField string

	// Scopes requested on the authorization redirect
	Scopes []string

	// ScopeSeparator joins Scopes on the redirect and splits the granted scope
	ScopeSeparator string

	// PassRequestToVerifier selects VerifyWithRequest over Verify
	PassRequestToVerifier bool

	Verify            VerifyFunc
	VerifyWithRequest VerifyRequestFunc

	// Timeout bounds the token exchange round trip
	Timeout time.Duration

	// InsecureSkipVerify disables certificate validation. Only for test environments.
	InsecureSkipVerify bool

	// HTTPClient replaces the default TLS client
	HTTPClient HTTPClient

	Logger *slog.Logger
}

// validate fills defaults and checks required options. It returns the verifier variant
// selected by PassRequestToVerifier.
func (c *Config) validate() (Verifier, error) {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.GrantType == "" {
		c.GrantType = DefaultGrantType
	}
	if c.IdentityField == "" {
		c.IdentityField = DefaultIdentityField
	}
	if c.ScopeSeparator == "" {
		c.ScopeSeparator = DefaultScopeSeparator
	}
	if c.Timeout < 0 {
		return nil, &ConfigError{Field: "timeout", Reason: "must not be negative"}
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	if c.TokenURL != "" {
		if err := c.splitTokenURL(); err != nil {
			return nil, err
		}
	}

	var verifier Verifier
	if c.PassRequestToVerifier {
		if c.VerifyWithRequest == nil {
			return nil, &ConfigError{Field: "verify callback", Reason: "with request is required when passing the request"}
		}
		verifier = c.VerifyWithRequest
	} else {
		if c.Verify == nil {
			return nil, &ConfigError{Field: "verify callback"}
		}
		verifier = c.Verify
	}

	if c.RedirectURI == "" {
		return nil, &ConfigError{Field: "redirect URI"}
	}
	if c.TokenHost == "" {
		return nil, &ConfigError{Field: "token hostname"}
	}
	if c.TokenPath == "" {
		return nil, &ConfigError{Field: "token path"}
	}
	if c.ClientID == "" {
		return nil, &ConfigError{Field: "client ID"}
	}
	if c.ClientSecret == "" {
		return nil, &ConfigError{Field: "client secret"}
	}

	c.Scopes = append([]string(nil), c.Scopes...)
	return verifier, nil
}

// splitTokenURL derives TokenHost and TokenPath from TokenURL unless they are set explicitly.
func (c *Config) splitTokenURL() error {
	u, err := url.Parse(c.TokenURL)
	if err != nil {
		return &ConfigError{Field: "token URL", Reason: "is not a valid URL"}
	}
	if u.Scheme != "https" || u.Host == "" {
		return &ConfigError{Field: "token URL", Reason: "must be an absolute https URL"}
	}
	if c.TokenHost == "" {
		c.TokenHost = u.Host
	}
	if c.TokenPath == "" {
		c.TokenPath = u.EscapedPath()
	}
	return nil
}

// tokenEndpoint renders the token endpoint without the exchange parameters.
func (c *Config) tokenEndpoint() string {
	path := c.TokenPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "https://" + c.TokenHost + path
}
