package authenticator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/oauth2/v1/auth",
			"token_endpoint":         srv.URL + "/oauth2/v1/token",
			"jwks_uri":               srv.URL + "/oauth2/v1/keys",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDiscover(t *testing.T) {
	srv := newDiscoveryServer(t)

	cfg := validConfig()
	cfg.TokenHost = ""
	cfg.TokenPath = ""
	cfg.HTTPClient = srv.Client()

	cfg, err := Discover(context.Background(), srv.URL, cfg)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/oauth2/v1/auth", cfg.AuthURL)
	assert.Equal(t, srv.URL+"/oauth2/v1/token", cfg.TokenURL)

	s, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, srv.Listener.Addr().String(), s.cfg.TokenHost)
	assert.Equal(t, "/oauth2/v1/token", s.cfg.TokenPath)
}

func TestDiscover_KeepsExplicitEndpoints(t *testing.T) {
	srv := newDiscoveryServer(t)

	cfg := validConfig()
	cfg.AuthURL = "https://auth.example.com/authorize"
	cfg.HTTPClient = srv.Client()

	cfg, err := Discover(context.Background(), srv.URL, cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://auth.example.com/authorize", cfg.AuthURL)
	assert.Empty(t, cfg.TokenURL)
	assert.Equal(t, "token.tmus.net", cfg.TokenHost)
}

func TestDiscover_Errors(t *testing.T) {
	_, err := Discover(context.Background(), "", validConfig())
	assert.Error(t, err)

	srv := newDiscoveryServer(t)
	cfg := validConfig()
	cfg.HTTPClient = srv.Client()
	_, err = Discover(context.Background(), srv.URL+"/other", cfg)
	assert.Error(t, err)
}
