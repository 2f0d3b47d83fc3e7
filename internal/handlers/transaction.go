package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/empresadev/gestao-api/internal/httpx"
	"github.com/empresadev/gestao-api/internal/models"
	"github.com/empresadev/gestao-api/internal/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionHandler struct {
	DB *gorm.DB
}

func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{DB: db}
}

// List: GET /transacoes?tipo=
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Model(&models.Transaction{})
	if v := r.URL.Query().Get("tipo"); v != "" {
		dbq = dbq.Where("type = ?", v)
	}
	var txs []models.Transaction
	if err := dbq.Order("date desc").Find(&txs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_transactions", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, txs)
}

// Get: GET /transacoes/{id}
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var tx models.Transaction
	if err := h.DB.First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_transaction", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, tx)
}

type transactionInput struct {
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	ProductID *uint           `json:"productId"`
	OrderID   *uint           `json:"orderId"`
}

func (in transactionInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.OneOf("type", in.Type, []string{models.TransactionIn, models.TransactionOut}, v)
	if in.Amount.IsNegative() {
		v["amount"] = "must_not_be_negative"
	}
	return v
}

// Create: POST /transacoes
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in transactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if in.Date == "" {
		in.Date = time.Now().UTC().Format("2006-01-02")
	}
	tx := models.Transaction{Type: in.Type, Amount: in.Amount, Date: in.Date, ProductID: in.ProductID, OrderID: in.OrderID}
	if err := h.DB.Create(&tx).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_transaction", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "id": tx.ID})
}

// Update: PUT /transacoes/{id}
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in transactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	res := h.DB.Model(&models.Transaction{}).Where("id = ?", id).Updates(map[string]any{
		"type": in.Type, "amount": in.Amount, "date": in.Date,
		"product_id": in.ProductID, "order_id": in.OrderID,
	})
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_transaction", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// Delete: DELETE /transacoes/{id}
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Transaction{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_transaction", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}
