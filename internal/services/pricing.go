package services

import (
	"github.com/empresadev/gestao-api/internal/models"
	"github.com/shopspring/decimal"
)

// OrderTotal returns the sum of quantity × unit price over items. Decimal
// arithmetic keeps the result exact at currency precision no matter how many
// items accumulate. An empty set totals zero.
func OrderTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
