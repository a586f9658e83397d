package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/tmoid/authenticator"
	"github.com/blogem/tmoid/middleware"
	"github.com/blogem/tmoid/models"
	"github.com/blogem/tmoid/services"
)

const (
	sessionState      = "state"
	sessionLoginError = "login_error"
)

// AuthController handles the login, callback and logout routes
type AuthController struct {
	auth     authenticator.Provider
	services *services.Services
}

func NewAuthController(auth authenticator.Provider, services *services.Services) *AuthController {
	return &AuthController{
		auth:     auth,
		services: services,
	}
}

// LoginPage handles GET /login
func (ac *AuthController) LoginPage(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)

	loginError, _ := sess.Get(sessionLoginError).(string)
	sess.Delete(sessionLoginError)

	renderTemplate(w, "login.html", pageData{
		Title:    "Sign in",
		UserName: userName(r),
		Error:    loginError,
		Data:     "/auth/" + ac.auth.Name(),
	})
}

// Login initiates the authentication process
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	// Generate random state
	state, err := generateRandomState()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	authURL := ac.auth.AuthCodeURL(state)
	if authURL == "" {
		http.Error(w, "Authorization endpoint is not configured", http.StatusInternalServerError)
		return
	}

	// Save the state in the session to validate in callback
	sess := session.GetSession(r)
	sess.Set(sessionState, state)

	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// Callback handles the redirect back from the authorization server
func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)

	// Verify state
	storedState, _ := sess.Get(sessionState).(string)
	if storedState == "" {
		http.Error(w, "State not found in session", http.StatusBadRequest)
		return
	}
	sess.Delete(sessionState)

	if r.URL.Query().Get("state") != storedState {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	out := ac.auth.Authenticate(r)
	ac.services.Audit.RecordOutcome(r.Context(), ac.auth.Name(), out, r.UserAgent(), middleware.ClientIP(r))

	switch out.Kind {
	case authenticator.OutcomeSuccess:
		user, ok := out.User.(*models.User)
		if !ok {
			http.Error(w, "Unexpected user type", http.StatusInternalServerError)
			return
		}

		sess.Set(middleware.SessionUserID, user.ID)
		sess.Set(middleware.SessionUserName, user.Name())

		redirect := "/profile"
		if dest, ok := sess.Get(middleware.SessionRedirectAfter).(string); ok && dest != "" {
			redirect = dest
			sess.Delete(middleware.SessionRedirectAfter)
		}
		http.Redirect(w, r, redirect, http.StatusSeeOther)

	case authenticator.OutcomeFail:
		message := out.Reason
		if message == "" {
			message = "Login failed"
		}
		sess.Set(sessionLoginError, message)
		http.Redirect(w, r, "/login", http.StatusSeeOther)

	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Logout clears the session user
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	sess.Delete(middleware.SessionUserID)
	sess.Delete(middleware.SessionUserName)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
