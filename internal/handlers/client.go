package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/empresadev/gestao-api/internal/httpx"
	"github.com/empresadev/gestao-api/internal/models"
	"github.com/empresadev/gestao-api/internal/services"
	"github.com/empresadev/gestao-api/internal/validation"
	"gorm.io/gorm"
)

type ClientHandler struct {
	DB  *gorm.DB
	Svc *services.ClientService
}

func NewClientHandler(db *gorm.DB, svc *services.ClientService) *ClientHandler {
	return &ClientHandler{DB: db, Svc: svc}
}

// List: GET /clientes?nome=&cpf_cnpj=&ordem=nome|cpf_cnpj
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dbq := h.DB.Model(&models.Client{})
	if v := strings.TrimSpace(q.Get("nome")); v != "" {
		dbq = dbq.Where("name LIKE ?", "%"+v+"%")
	}
	if v := strings.TrimSpace(q.Get("cpf_cnpj")); v != "" {
		dbq = dbq.Where("cpf_cnpj LIKE ?", "%"+v+"%")
	}
	switch q.Get("ordem") {
	case "nome":
		dbq = dbq.Order("name")
	case "cpf_cnpj":
		dbq = dbq.Order("cpf_cnpj")
	}
	var clients []models.Client
	if err := dbq.Find(&clients).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, clients)
}

// Get: GET /clientes/{id}
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var client models.Client
	if err := h.DB.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_client", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

type clientInput struct {
	Name    string `json:"name"`
	CPFCNPJ string `json:"cpf_cnpj"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

func (in clientInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("cpf_cnpj", in.CPFCNPJ, v)
	validation.Required("contact", in.Contact, v)
	return v
}

// Create: POST /clientes
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in clientInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	client := models.Client{Name: in.Name, CPFCNPJ: in.CPFCNPJ, Contact: in.Contact, Address: in.Address, Active: true}
	if err := h.DB.Create(&client).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_client", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "id": client.ID})
}

// Update: PUT /clientes/{id}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in clientInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	res := h.DB.Model(&models.Client{}).Where("id = ?", id).Updates(map[string]any{
		"name": in.Name, "cpf_cnpj": in.CPFCNPJ, "contact": in.Contact, "address": in.Address,
	})
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_client", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// Delete: DELETE /clientes/{id} — routed through the referential guard.
// Clients with orders are deactivated, not removed.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.Svc.Delete(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "deleted": deleted})
}
