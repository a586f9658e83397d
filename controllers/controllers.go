package controllers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/blogem/tmoid/authenticator"
	"github.com/blogem/tmoid/services"
	"github.com/blogem/tmoid/userctx"
)

//go:embed templates/*.html
var templateFiles embed.FS

// pageData is the data every page template receives
type pageData struct {
	Title    string
	UserName string
	Error    string
	Success  string
	Data     any
}

// renderTemplate creates a template set and renders it with the provided data
func renderTemplate(w http.ResponseWriter, pageTemplate string, data pageData) error {
	return renderTemplateWithStatus(w, http.StatusOK, pageTemplate, data)
}

// renderTemplateWithStatus creates a template set and renders it with the provided data and status code
func renderTemplateWithStatus(w http.ResponseWriter, statusCode int, pageTemplate string, data pageData) error {
	// Parse layout and page template
	tmpl, err := template.ParseFS(templateFiles, "templates/layout.html", "templates/"+pageTemplate)
	if err != nil {
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	// Set status code if not OK
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}

	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	return nil
}

// userName returns the signed-in user's name or empty for anonymous requests
func userName(r *http.Request) string {
	if _, ok := userctx.GetUserID(r.Context()); !ok {
		return ""
	}
	return userctx.GetUserName(r.Context())
}

// Controllers holds all controller instances
type Controllers struct {
	Auth    *AuthController
	Profile *ProfileController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, auth authenticator.Provider) *Controllers {
	return &Controllers{
		Auth:    NewAuthController(auth, services),
		Profile: NewProfileController(services),
	}
}
