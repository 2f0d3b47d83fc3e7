package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/empresadev/gestao-api/internal/httpx"
	"github.com/empresadev/gestao-api/internal/models"
	"github.com/empresadev/gestao-api/internal/validation"
	"gorm.io/gorm"
)

type SupplierHandler struct {
	DB *gorm.DB
}

func NewSupplierHandler(db *gorm.DB) *SupplierHandler { return &SupplierHandler{DB: db} }

// List: GET /fornecedores?filtro=&ordem=asc|desc
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dbq := h.DB.Model(&models.Supplier{})
	if v := strings.TrimSpace(q.Get("filtro")); v != "" {
		like := "%" + v + "%"
		dbq = dbq.Where("name LIKE ? OR contact LIKE ?", like, like)
	}
	if v := q.Get("ordem"); v != "" {
		dir := "DESC"
		if v == "asc" {
			dir = "ASC"
		}
		dbq = dbq.Order("name " + dir)
	}
	var suppliers []models.Supplier
	if err := dbq.Find(&suppliers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_suppliers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, suppliers)
}

// Get: GET /fornecedores/{id}
func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var supplier models.Supplier
	if err := h.DB.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_supplier", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

type supplierInput struct {
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

func (in supplierInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("cnpj", in.CNPJ, v)
	return v
}

// Create: POST /fornecedores
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in supplierInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	supplier := models.Supplier{Name: in.Name, CNPJ: in.CNPJ, Contact: in.Contact, Address: in.Address}
	if err := h.DB.Create(&supplier).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_supplier", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "id": supplier.ID})
}

// Update: PUT /fornecedores/{id}
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in supplierInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	res := h.DB.Model(&models.Supplier{}).Where("id = ?", id).Updates(map[string]any{
		"name": in.Name, "cnpj": in.CNPJ, "contact": in.Contact, "address": in.Address,
	})
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_supplier", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// Delete: DELETE /fornecedores/{id}
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Supplier{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_supplier", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}
