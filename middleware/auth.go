package middleware

import (
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/tmoid/userctx"
)

// Session keys shared with the auth controller
const (
	SessionUserID        = "user_id"
	SessionUserName      = "user_name"
	SessionRedirectAfter = "redirect_after_login"
)

// withSessionUser copies the session user into the request context
func withSessionUser(r *http.Request) (*http.Request, bool) {
	sess := session.GetSession(r)
	userID, ok := sess.Get(SessionUserID).(int64)
	if !ok {
		return r, false
	}

	ctx := userctx.SetUserID(r.Context(), userID)
	if name, ok := sess.Get(SessionUserName).(string); ok {
		ctx = userctx.SetUserName(ctx, name)
	}
	return r.WithContext(ctx), true
}

// LoadUser adds the signed-in user, if any, to the request context
func LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, _ = withSessionUser(r)
		next.ServeHTTP(w, r)
	})
}

// RequireAuth ensures the user is authenticated
// If not authenticated, redirects to /login and stores the intended destination
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, ok := withSessionUser(r)
		if !ok {
			// Store the intended destination for redirect after login
			session.GetSession(r).Set(SessionRedirectAfter, r.URL.Path)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
