package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product entity. Price is the current catalog price; orders snapshot their
// own unit price at order time and never re-read this column.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null;index" json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Quantity    int             `json:"quantity"`
	Image       string          `json:"image"` // served under /uploads/
	SupplierID  uint            `gorm:"not null;index" json:"supplierId"`
	Supplier    Supplier        `gorm:"foreignKey:SupplierID" json:"-"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}
