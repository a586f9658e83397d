package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TMOID_CLIENT_ID", "client-id")
	t.Setenv("TMOID_CLIENT_SECRET", "client-secret")
	t.Setenv("TMOID_REDIRECT_URI", "https://localhost:3000/auth/tmoid/callback")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("TMOID_TOKEN_URL", "https://token.tmus.net/oauth2/v1/token")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "tmoid.db", cfg.DatabasePath)
	assert.Equal(t, time.Hour, cfg.SessionLifetime)
	assert.Equal(t, "client-id", cfg.Provider.ClientID)
	assert.Equal(t, []string{"TMO_ID_profile"}, cfg.Provider.Scopes)
	assert.Equal(t, ",", cfg.Provider.ScopeSeparator)
	assert.Equal(t, "tmobileid", cfg.Provider.IdentityField)
	assert.Equal(t, 10*time.Second, cfg.Provider.TokenTimeout)
	assert.False(t, cfg.TrustProxy)
	assert.False(t, cfg.Provider.InsecureSkipVerify)
}

func TestLoad_EnvFile(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TMOID_TOKEN_HOST=token.tmus.net\nTMOID_TOKEN_PATH=/oauth2/v1/token\nTMOID_SCOPES=a,b\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("TMOID_TOKEN_HOST")
		os.Unsetenv("TMOID_TOKEN_PATH")
		os.Unsetenv("TMOID_SCOPES")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "token.tmus.net", cfg.Provider.TokenHost)
	assert.Equal(t, "/oauth2/v1/token", cfg.Provider.TokenPath)
	assert.Equal(t, []string{"a", "b"}, cfg.Provider.Scopes)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("TMOID_CLIENT_ID", "")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_MissingTokenEndpoint(t *testing.T) {
	setRequired(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "TMOID_TOKEN_URL")
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{LogLevel: "debug", LogFormat: "json"}
	logger := cfg.NewLogger()
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	cfg = &Config{LogLevel: "bogus"}
	logger = cfg.NewLogger()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}
