package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the application configuration read from the environment
type Config struct {
	Port            string        `env:"PORT"             envDefault:"8080"`
	DatabasePath    string        `env:"DATABASE_PATH"    envDefault:"tmoid.db"`
	UseHTTPS        bool          `env:"USE_HTTPS"        envDefault:"false"`
	TrustProxy      bool          `env:"TRUST_PROXY"      envDefault:"false"`
	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"1h"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT"       envDefault:"text"`

	Provider ProviderConfig `envPrefix:"TMOID_"`
}

// ProviderConfig holds the identity provider settings
type ProviderConfig struct {
	ClientID           string        `env:"CLIENT_ID,required,notEmpty"`
	ClientSecret       string        `env:"CLIENT_SECRET,required,notEmpty"`
	RedirectURI        string        `env:"REDIRECT_URI,required,notEmpty"`
	TokenHost          string        `env:"TOKEN_HOST"`
	TokenPath          string        `env:"TOKEN_PATH"`
	TokenURL           string        `env:"TOKEN_URL"`
	AuthURL            string        `env:"AUTH_URL"`
	Issuer             string        `env:"ISSUER"`
	Scopes             []string      `env:"SCOPES"             envSeparator:"," envDefault:"TMO_ID_profile"`
	ScopeSeparator     string        `env:"SCOPE_SEPARATOR"    envDefault:","`
	IdentityField      string        `env:"IDENTITY_FIELD"     envDefault:"tmobileid"`
	TokenTimeout       time.Duration `env:"TOKEN_TIMEOUT"      envDefault:"10s"`
	InsecureSkipVerify bool          `env:"INSECURE_SKIP_VERIFY" envDefault:"false"`
}

// Load reads an optional .env file and parses the environment
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load the env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	if cfg.Provider.TokenURL == "" && cfg.Provider.Issuer == "" &&
		(cfg.Provider.TokenHost == "" || cfg.Provider.TokenPath == "") {
		return nil, errors.New("TMOID_TOKEN_URL, TMOID_ISSUER or TMOID_TOKEN_HOST and TMOID_TOKEN_PATH must be set")
	}

	return &cfg, nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
