package services

import (
	"errors"
	"sync"
	"time"

	"github.com/empresadev/gestao-api/internal/models"
	"github.com/empresadev/gestao-api/internal/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemInput is one requested line of an order: which product, how many, and
// the unit price snapshotted for this order.
type ItemInput struct {
	ProductID uint            `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// UpdateOrderInput carries the optional fields of an order update. A nil
// Items means "leave the item set alone"; a pointer to an empty slice means
// "replace with nothing".
type UpdateOrderInput struct {
	ClientID *uint        `json:"clientId"`
	Status   *string      `json:"status"`
	Items    *[]ItemInput `json:"items"`
}

// OrderDetail is the resolved read model of an order.
type OrderDetail struct {
	ID         uint              `json:"id"`
	Date       string            `json:"date"`
	ClientID   uint              `json:"clientId"`
	ClientName string            `json:"clientName"`
	Status     string            `json:"status"`
	Total      decimal.Decimal   `json:"total"`
	Items      []OrderItemDetail `json:"items"`
}

type OrderItemDetail struct {
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// OrderService orchestrates the lifecycle of an order and its items. Every
// mutation runs the sequence "replace items → recompute total from the
// persisted rows → persist total" inside one transaction, serialized per
// order id so interleaved updates cannot mix two item sets into one total.
type OrderService struct {
	db    *gorm.DB
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, locks: map[uint]*sync.Mutex{}}
}

func (s *OrderService) lockOrder(id uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Create persists a new pending order with its items and derived total,
// returning the new order id.
func (s *OrderService) Create(clientID uint, items []ItemInput) (uint, error) {
	v := validation.Violations{}
	validation.PositiveID("clientId", clientID, v)
	if len(items) == 0 {
		v["items"] = "required"
	}
	validateItems(items, v)
	if !v.Empty() {
		return 0, &ValidationError{Fields: v}
	}
	if err := s.checkClientExists(clientID); err != nil {
		return 0, err
	}

	order := models.Order{
		Date:     time.Now().UTC().Format(time.RFC3339),
		ClientID: clientID,
		Status:   models.OrderStatusPending,
		Total:    decimal.Zero,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return &StorageError{Op: "create order", Err: err}
		}
		persisted, err := replaceItems(tx, order.ID, items)
		if err != nil {
			return err
		}
		total := OrderTotal(persisted)
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("total", total).Error; err != nil {
			return &StorageError{Op: "update order total", Err: err}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return order.ID, nil
}

// Update patches client/status when supplied and, when Items is present
// (even empty), replaces the item set and recomputes the total. At least one
// field must be supplied.
func (s *OrderService) Update(orderID uint, in UpdateOrderInput) error {
	if in.ClientID == nil && in.Status == nil && in.Items == nil {
		return &ValidationError{Fields: validation.Violations{"body": "clientId, status or items must be provided"}}
	}
	v := validation.Violations{}
	if in.Status != nil {
		validation.OneOf("status", *in.Status, []string{models.OrderStatusPending, models.OrderStatusCompleted}, v)
	}
	if in.ClientID != nil {
		validation.PositiveID("clientId", *in.ClientID, v)
	}
	if in.Items != nil {
		validateItems(*in.Items, v)
	}
	if !v.Empty() {
		return &ValidationError{Fields: v}
	}
	if in.ClientID != nil {
		if err := s.checkClientExists(*in.ClientID); err != nil {
			return err
		}
	}

	l := s.lockOrder(orderID)
	l.Lock()
	defer l.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "order", ID: orderID}
			}
			return &StorageError{Op: "load order", Err: err}
		}
		patch := map[string]any{}
		if in.ClientID != nil {
			patch["client_id"] = *in.ClientID
		}
		if in.Status != nil {
			patch["status"] = *in.Status
		}
		if len(patch) > 0 {
			if err := tx.Model(&order).Updates(patch).Error; err != nil {
				return &StorageError{Op: "update order", Err: err}
			}
		}
		if in.Items == nil {
			return nil
		}
		persisted, err := replaceItems(tx, orderID, *in.Items)
		if err != nil {
			return err
		}
		total := OrderTotal(persisted)
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("total", total).Error; err != nil {
			return &StorageError{Op: "update order total", Err: err}
		}
		return nil
	})
}

// Delete removes the order's items first, then the order row.
func (s *OrderService) Delete(orderID uint) error {
	l := s.lockOrder(orderID)
	l.Lock()
	defer l.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "order", ID: orderID}
			}
			return &StorageError{Op: "load order", Err: err}
		}
		// items go first to satisfy the foreign key
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return &StorageError{Op: "delete order items", Err: err}
		}
		if err := tx.Delete(&order).Error; err != nil {
			return &StorageError{Op: "delete order", Err: err}
		}
		return nil
	})
}

// Get returns the order with its client name and resolved items.
func (s *OrderService) Get(orderID uint) (*OrderDetail, error) {
	var order models.Order
	if err := s.db.Preload("Items.Product").Preload("Client").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", ID: orderID}
		}
		return nil, &StorageError{Op: "load order", Err: err}
	}
	detail := &OrderDetail{
		ID:         order.ID,
		Date:       order.Date,
		ClientID:   order.ClientID,
		ClientName: order.Client.Name,
		Status:     order.Status,
		Total:      order.Total,
		Items:      make([]OrderItemDetail, 0, len(order.Items)),
	}
	for _, it := range order.Items {
		detail.Items = append(detail.Items, OrderItemDetail{
			ProductID:   it.ProductID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return detail, nil
}

func (s *OrderService) checkClientExists(clientID uint) error {
	var count int64
	if err := s.db.Model(&models.Client{}).Where("id = ?", clientID).Count(&count).Error; err != nil {
		return &StorageError{Op: "check client", Err: err}
	}
	if count == 0 {
		return &ReferenceError{Entity: "client", ID: clientID}
	}
	return nil
}

// replaceItems makes the persisted item set for orderID equal to items:
// the old rows are deleted and the supplied rows inserted verbatim, in the
// caller's order. Every product reference is verified inside the same
// transaction. Returns the rows as persisted so the caller can total them.
func replaceItems(tx *gorm.DB, orderID uint, items []ItemInput) ([]models.OrderItem, error) {
	if len(items) > 0 {
		ids := make([]uint, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		var found []uint
		if err := tx.Model(&models.Product{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return nil, &StorageError{Op: "check products", Err: err}
		}
		existing := make(map[uint]bool, len(found))
		for _, id := range found {
			existing[id] = true
		}
		for _, id := range ids {
			if !existing[id] {
				return nil, &ReferenceError{Entity: "product", ID: id}
			}
		}
	}

	if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return nil, &StorageError{Op: "clear order items", Err: err}
	}
	if len(items) == 0 {
		return nil, nil
	}
	rows := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		rows = append(rows, models.OrderItem{
			OrderID:   orderID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, &StorageError{Op: "insert order items", Err: err}
	}
	// re-read what actually landed; the total must come from persisted rows
	var persisted []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Order("id").Find(&persisted).Error; err != nil {
		return nil, &StorageError{Op: "reload order items", Err: err}
	}
	return persisted, nil
}

func validateItems(items []ItemInput, v validation.Violations) {
	for _, it := range items {
		if it.ProductID == 0 {
			v["items.productId"] = "required"
		}
		if it.Quantity <= 0 {
			v["items.quantity"] = "must_be_positive"
		}
		if it.UnitPrice.IsNegative() {
			v["items.unitPrice"] = "must_not_be_negative"
		}
	}
}
