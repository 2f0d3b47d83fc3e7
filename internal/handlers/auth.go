package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/empresadev/gestao-api/internal/httpx"
	"github.com/empresadev/gestao-api/internal/models"
	"github.com/empresadev/gestao-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler covers register/login. The API is tokenless: login just
// verifies the password and returns the user, the SPA keeps it client-side.
type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

// RegisterUser: POST /register
func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("email", in.Email, v)
	validation.Required("password", in.Password, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if in.Role == "" {
		in.Role = "user"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_hash_password", nil)
		return
	}
	user := models.User{Name: in.Name, Email: in.Email, Password: string(hash), Role: in.Role}
	if err := h.DB.Create(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_register_user", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "id": user.ID})
}

// Login: POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if in.Email == "" || in.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"email": "required", "password": "required"})
		return
	}
	var user models.User
	if err := h.DB.Where("email = ?", in.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_user", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{"id": user.ID, "name": user.Name, "role": user.Role},
	})
}

// ListUsers: GET /usuarios
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_users", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}
