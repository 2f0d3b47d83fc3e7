package models

import "github.com/shopspring/decimal"

// Order status values. Updates accept either value in either direction;
// nothing in the store enforces one-way flow.
const (
	OrderStatusPending   = "Pending"
	OrderStatusCompleted = "Completed"
)

// Order (pedido). Total is derived from the order's items and is only ever
// written by the order service after the item set changes.
type Order struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Date     string          `gorm:"not null" json:"date"` // ISO-8601, set at creation
	ClientID uint            `gorm:"not null;index" json:"clientId"`
	Client   Client          `gorm:"foreignKey:ClientID" json:"-"`
	Status   string          `gorm:"not null;default:'Pending'" json:"status"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	Items    []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem belongs to exactly one order and is replaced wholesale whenever
// the order's item set changes. UnitPrice is snapshotted at order time.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"orderId"`
	ProductID uint            `gorm:"not null" json:"productId"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"unitPrice"`
}
