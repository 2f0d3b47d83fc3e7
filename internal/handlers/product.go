package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/empresadev/gestao-api/internal/httpx"
	"github.com/empresadev/gestao-api/internal/models"
	"github.com/empresadev/gestao-api/internal/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB        *gorm.DB
	UploadDir string
}

func NewProductHandler(db *gorm.DB, uploadDir string) *ProductHandler {
	return &ProductHandler{DB: db, UploadDir: uploadDir}
}

// productRow is the list projection including the supplier name.
type productRow struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Image        string          `json:"image"`
	SupplierID   uint            `json:"supplierId"`
	SupplierName string          `json:"supplierName"`
}

// List: GET /produtos?nome=&fornecedorId=&ordemPreco=asc|desc
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dbq := h.DB.Model(&models.Product{}).
		Select("products.id, products.name, products.description, products.price, products.quantity, products.image, products.supplier_id, suppliers.name AS supplier_name").
		Joins("LEFT JOIN suppliers ON suppliers.id = products.supplier_id")
	if v := strings.TrimSpace(q.Get("nome")); v != "" {
		dbq = dbq.Where("products.name LIKE ?", "%"+v+"%")
	}
	if v := q.Get("fornecedorId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			dbq = dbq.Where("products.supplier_id = ?", id)
		}
	}
	if v := q.Get("ordemPreco"); v != "" {
		dir := "DESC"
		if v == "asc" {
			dir = "ASC"
		}
		dbq = dbq.Order("products.price " + dir)
	}
	var rows []productRow
	if err := dbq.Scan(&rows).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	if rows == nil {
		rows = []productRow{}
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// Get: GET /produtos/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_product", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

type productInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	SupplierID  uint            `json:"supplierId"`
	Image       string          `json:"-"`
	HasImage    bool            `json:"-"`
}

// decodeProduct accepts either JSON or multipart form (the latter carries an
// optional image file, stored under the upload dir).
func (h *ProductHandler) decodeProduct(r *http.Request) (productInput, error) {
	var in productInput
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		return in, json.NewDecoder(r.Body).Decode(&in)
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return in, err
	}
	in.Name = r.FormValue("name")
	in.Description = r.FormValue("description")
	if v := r.FormValue("price"); v != "" {
		p, err := decimal.NewFromString(v)
		if err != nil {
			return in, err
		}
		in.Price = p
	}
	if v := r.FormValue("quantity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, err
		}
		in.Quantity = n
	}
	if v := r.FormValue("supplierId"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, err
		}
		in.SupplierID = uint(n)
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return in, nil // image is optional
	}
	defer file.Close()
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return in, err
	}
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(header.Filename))
	dst, err := os.Create(filepath.Join(h.UploadDir, name))
	if err != nil {
		return in, err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return in, err
	}
	in.Image = "/uploads/" + name
	in.HasImage = true
	return in, nil
}

func (in productInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.PositiveID("supplierId", in.SupplierID, v)
	if in.Price.IsNegative() {
		v["price"] = "must_not_be_negative"
	}
	return v
}

// Create: POST /produtos (JSON or multipart with image)
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeProduct(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_payload", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var supplierCount int64
	if err := h.DB.Model(&models.Supplier{}).Where("id = ?", in.SupplierID).Count(&supplierCount).Error; err != nil || supplierCount == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_reference", map[string]any{"entity": "supplier", "id": in.SupplierID})
		return
	}
	product := models.Product{
		Name: in.Name, Description: in.Description, Price: in.Price,
		Quantity: in.Quantity, Image: in.Image, SupplierID: in.SupplierID,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_product", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "id": product.ID})
}

// Update: PUT /produtos/{id}. Without a new image the stored path is kept.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, err := h.decodeProduct(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_payload", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	patch := map[string]any{
		"name": in.Name, "description": in.Description, "price": in.Price,
		"quantity": in.Quantity, "supplier_id": in.SupplierID,
	}
	if in.HasImage {
		patch["image"] = in.Image
	}
	res := h.DB.Model(&models.Product{}).Where("id = ?", id).Updates(patch)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_product", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// Delete: DELETE /produtos/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Product{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_product", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}
