package authenticator

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Strategy authenticates authorization code callbacks against one provider.
// It is immutable after New and safe for concurrent use.
type Strategy struct {
	cfg      Config
	verifier Verifier
	client   HTTPClient
	oauth    oauth2.Config
	log      *slog.Logger
}

// New validates cfg and builds a strategy. A missing required option yields a *ConfigError
// and no strategy.
func New(cfg Config) (*Strategy, error) {
	verifier, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	client := cfg.HTTPClient
	if client == nil {
		client = newHTTPClient(cfg.Timeout, cfg.InsecureSkipVerify)
	}

	var scopes []string
	if len(cfg.Scopes) > 0 {
		// oauth2 joins scopes with spaces; providers with another separator get one pre-joined value
		scopes = []string{strings.Join(cfg.Scopes, cfg.ScopeSeparator)}
	}

	return &Strategy{
		cfg:      cfg,
		verifier: verifier,
		client:   client,
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.tokenEndpoint(),
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		log: cfg.Logger.With("strategy", cfg.Name),
	}, nil
}

// MustNew is New that panics on a configuration error
func MustNew(cfg Config) *Strategy {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the strategy name
func (s *Strategy) Name() string {
	return s.cfg.Name
}

// AuthCodeURL returns the authorization endpoint URL users are sent to. It is empty
// when no AuthURL is configured.
func (s *Strategy) AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string {
	if s.cfg.AuthURL == "" {
		return ""
	}
	opts = append([]oauth2.AuthCodeOption{oauth2.AccessTypeOnline}, opts...)
	return s.oauth.AuthCodeURL(state, opts...)
}

type authenticateOptions struct {
	tokenHost string
}

// AuthenticateOption adjusts a single Authenticate call
type AuthenticateOption func(*authenticateOptions)

// WithTokenHost sends this attempt's exchange to host instead of the configured one
func WithTokenHost(host string) AuthenticateOption {
	return func(o *authenticateOptions) {
		o.tokenHost = host
	}
}

// Authenticate runs one authentication attempt for a callback request: check the code,
// exchange it, interpret the response and hand the grant to the verify callback.
// Every failure is reported through the returned Outcome.
func (s *Strategy) Authenticate(r *http.Request, opts ...AuthenticateOption) Outcome {
	var o authenticateOptions
	for _, opt := range opts {
		opt(&o)
	}

	attemptID := uuid.NewString()
	log := s.log.With("attempt_id", attemptID)

	out := s.authenticate(r, o, log)
	out.AttemptID = attemptID

	switch out.Kind {
	case OutcomeSuccess:
		log.Info("authentication succeeded")
	case OutcomeFail:
		log.Warn("authentication failed", "reason", out.Reason, "status", out.StatusCode, "error", out.Err)
	default:
		log.Error("authentication error", "error", out.Err)
	}
	return out
}

func (s *Strategy) authenticate(r *http.Request, o authenticateOptions, log *slog.Logger) Outcome {
	query := r.URL.Query()

	code := query.Get("code")
	if code == "" {
		denied := query.Get("error")
		if denied == "" {
			denied = query.Get("error_code")
		}
		if denied != "" {
			reason := query.Get("error_message")
			if reason == "" {
				reason = denied
			}
			perr := &ProviderError{Code: denied, Description: query.Get("error_message")}
			return Fail(reason, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrAuthorizationDenied, perr))
		}
		return Fail(ErrMissingCode.Error(), http.StatusBadRequest, ErrMissingCode)
	}
	log.Debug("code checked")

	ex := NewExchangeRequest(&s.cfg, code)
	if o.tokenHost != "" {
		ex.Host = o.tokenHost
	}

	req, err := ex.HTTPRequest(r.Context())
	if err != nil {
		return Errored(err)
	}

	log.Debug("sending token request", "host", ex.Host, "path", ex.Path)
	res, err := exchange(r.Context(), s.client, req, s.cfg.Timeout)
	if err != nil {
		return Fail(err.Error(), http.StatusBadGateway, err)
	}
	log.Debug("token response received", "status", res.StatusCode)

	tok, err := ParseTokenResponse(res.StatusCode, res.ContentType, res.Body, s.cfg.IdentityField)
	if err != nil {
		return Fail(ErrMalformedResponse.Error(), http.StatusBadGateway, err)
	}
	if tok.IsError() {
		return Fail(tok.Err.Message(), http.StatusBadRequest, tok.Err)
	}

	grant := Grant{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresIn:   tok.ExpiresIn,
		IdentityID:  tok.IdentityID,
		Scope:       tok.Scope,
		separator:   s.cfg.ScopeSeparator,
	}
	out := dispatch(s.verifier, r, grant)
	log.Debug("grant verified", "kind", out.Kind.String())
	return out
}
