package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/blogem/tmoid/authenticator"
	"github.com/blogem/tmoid/config"
	"github.com/blogem/tmoid/controllers"
	"github.com/blogem/tmoid/database"
	authmiddleware "github.com/blogem/tmoid/middleware"
	"github.com/blogem/tmoid/repositories"
	"github.com/blogem/tmoid/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from the environment and an optional .env file
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	// Initialize database
	db, err := database.Open(context.Background(), cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Initialize repositories and services
	repos := repositories.NewRepositories(db)
	srvs := services.NewServices(repos, authenticator.DefaultName)

	// Initialize the authentication strategy
	auth, err := newStrategy(cfg, srvs, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize %s strategy: %w", authenticator.DefaultName, err)
	}

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs, auth)

	r, err := setupRouter(ctrl, auth, cfg)
	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	logger.Info("server starting", "port", cfg.Port, "database", cfg.DatabasePath)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// newStrategy builds the authorization code strategy with the user service as verify callback
func newStrategy(cfg *config.Config, srvs *services.Services, logger *slog.Logger) (*authenticator.Strategy, error) {
	p := cfg.Provider
	strategyCfg := authenticator.Config{
		Name:                  authenticator.DefaultName,
		TokenHost:             p.TokenHost,
		TokenPath:             p.TokenPath,
		TokenURL:              p.TokenURL,
		AuthURL:               p.AuthURL,
		ClientID:              p.ClientID,
		ClientSecret:          p.ClientSecret,
		RedirectURI:           p.RedirectURI,
		IdentityField:         p.IdentityField,
		Scopes:                p.Scopes,
		ScopeSeparator:        p.ScopeSeparator,
		PassRequestToVerifier: true,
		VerifyWithRequest:     srvs.Users.VerifyGrant,
		Timeout:               p.TokenTimeout,
		InsecureSkipVerify:    p.InsecureSkipVerify,
		Logger:                logger,
	}

	if p.Issuer != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var err error
		strategyCfg, err = authenticator.Discover(ctx, p.Issuer, strategyCfg)
		if err != nil {
			return nil, err
		}
	}

	return authenticator.New(strategyCfg)
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, auth authenticator.Provider, cfg *config.Config) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		// Only behind a proxy that sets X-Forwarded-For / X-Real-IP
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second)) // 60 second timeout for OAuth callbacks
	r.Use(middleware.Compress(5))

	// Session middleware
	lifetime := int64(cfg.SessionLifetime / time.Second)
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "tmoid_session",
		Secure:         cfg.UseHTTPS, // Set to true when USE_HTTPS=true (production)
		Gclifetime:     lifetime,
		Maxlifetime:    lifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// PUBLIC ROUTES (no authentication required)
	r.Group(func(r chi.Router) {
		r.Use(authmiddleware.LoadUser)

		r.Get("/", ctrl.Profile.Home)
		r.Get("/login", ctrl.Auth.LoginPage)
	})
	r.Get("/auth/"+auth.Name(), ctrl.Auth.Login)
	r.Get("/auth/"+auth.Name()+"/callback", ctrl.Auth.Callback)
	r.Get("/logout", ctrl.Auth.Logout)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "tmoid"}`)
	})

	// PROTECTED ROUTES (authentication required)
	r.Group(func(r chi.Router) {
		r.Use(authmiddleware.RequireAuth)

		r.Get("/profile", ctrl.Profile.Index)
	})

	return r, nil
}
