package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types (entrada = money in, saída = money out).
const (
	TransactionIn  = "Entrada"
	TransactionOut = "Saída"
)

// Transaction is a financial movement, optionally tied to a product or an
// order for traceability.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Type      string          `gorm:"not null" json:"type"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Date      string          `gorm:"not null" json:"date"` // ISO-8601 date
	ProductID *uint           `json:"productId,omitempty"`
	OrderID   *uint           `json:"orderId,omitempty"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}
