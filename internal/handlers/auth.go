package handlers

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/concesionaria/internal/auth"
	"github.com/diewo77/concesionaria/internal/models"
	"github.com/diewo77/concesionaria/internal/view"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if err := view.Render(w, r, "login.html", nil); err != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err := view.Render(w, r, "login.html", map[string]any{"Error": "Correo o contraseña incorrectos"}); err != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if err := view.Render(w, r, "login.html", map[string]any{"Error": "Correo o contraseña incorrectos"}); err != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}

	auth.CreateSession(w, user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if err := view.Render(w, r, "registro.html", nil); err != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	name := r.FormValue("name")

	if email == "" || password == "" {
		if err := view.Render(w, r, "registro.html", map[string]any{"Error": "Correo y contraseña son obligatorios"}); err != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if err := view.Render(w, r, "registro.html", map[string]any{"Error": "Error interno del servidor"}); err != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}

	user := models.User{
		Email:    email,
		Password: string(hashedPassword),
		Name:     name,
	}

	// The registration form may request a profile (e.g. "vendedor"); only
	// non-system lookups by name are honored, so nobody self-assigns the
	// administrator profile.
	if profileName := r.FormValue("perfil"); profileName != "" {
		var profile models.Profile
		if err := h.db.Where("name = ? AND name <> ?", profileName, "administrador").
			First(&profile).Error; err == nil {
			user.ProfileID = &profile.ID
		}
	}

	if err := h.db.Create(&user).Error; err != nil {
		if err := view.Render(w, r, "registro.html", map[string]any{"Error": "El correo ya está registrado"}); err != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}

	auth.CreateSession(w, user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
