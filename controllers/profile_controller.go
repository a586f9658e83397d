package controllers

import (
	"net/http"

	"github.com/blogem/tmoid/models"
	"github.com/blogem/tmoid/services"
	"github.com/blogem/tmoid/userctx"
)

// ProfileController handles the landing and profile pages
type ProfileController struct {
	services *services.Services
}

// NewProfileController creates a new profile controller
func NewProfileController(services *services.Services) *ProfileController {
	return &ProfileController{
		services: services,
	}
}

// Home handles GET /
func (c *ProfileController) Home(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "home.html", pageData{
		Title:    "Home",
		UserName: userName(r),
	})
}

// Index handles GET /profile
func (c *ProfileController) Index(w http.ResponseWriter, r *http.Request) {
	id, ok := userctx.GetUserID(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, err := c.services.Users.GetUser(r, id)
	if err != nil {
		http.Error(w, "Failed to load profile: "+err.Error(), http.StatusInternalServerError)
		return
	}

	attempts, err := c.services.Audit.RecentForUser(r.Context(), id, 10)
	if err != nil {
		http.Error(w, "Failed to load sign-in history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, "profile.html", pageData{
		Title:    "Profile",
		UserName: userName(r),
		Data: struct {
			User     *models.User
			Attempts []models.LoginAttempt
		}{
			User:     user,
			Attempts: attempts,
		},
	})
}
