package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/empresadev/gestao-api/internal/httpx"
	"github.com/empresadev/gestao-api/internal/models"
	"github.com/empresadev/gestao-api/internal/services"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB  *gorm.DB
	Svc *services.OrderService
}

func NewOrderHandler(db *gorm.DB, svc *services.OrderService) *OrderHandler {
	return &OrderHandler{DB: db, Svc: svc}
}

// orderRow is the list projection: order columns plus the client name.
type orderRow struct {
	ID         uint            `json:"id"`
	Date       string          `json:"date"`
	ClientID   uint            `json:"clientId"`
	ClientName string          `json:"clientName"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
}

// List: GET /pedidos?clienteId=&status=&ordemTotal=asc|desc
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dbq := h.DB.Model(&models.Order{}).
		Select("orders.id, orders.date, orders.client_id, clients.name AS client_name, orders.status, orders.total").
		Joins("LEFT JOIN clients ON clients.id = orders.client_id")
	if v := q.Get("clienteId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			dbq = dbq.Where("orders.client_id = ?", id)
		}
	}
	if v := q.Get("status"); v != "" {
		dbq = dbq.Where("orders.status = ?", v)
	}
	if v := q.Get("ordemTotal"); v != "" {
		dir := "DESC"
		if v == "asc" {
			dir = "ASC"
		}
		dbq = dbq.Order("orders.total " + dir)
	}
	var rows []orderRow
	if err := dbq.Scan(&rows).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	if rows == nil {
		rows = []orderRow{}
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// Get: GET /pedidos/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.Svc.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

// Create: POST /pedidos
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID uint                 `json:"clientId"`
		Items    []services.ItemInput `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	id, err := h.Svc.Create(req.ClientID, req.Items)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "id": id})
}

// Update: PUT /pedidos/{id}
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req services.UpdateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.Svc.Update(id, req); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// Delete: DELETE /pedidos/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Delete(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}
