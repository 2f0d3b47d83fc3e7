package services

import (
	"testing"

	"github.com/empresadev/gestao-api/internal/models"
	"github.com/shopspring/decimal"
)

func TestOrderTotal(t *testing.T) {
	items := []models.OrderItem{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("3.50")},
	}
	if got, want := OrderTotal(items), decimal.RequireFromString("13.50"); !got.Equal(want) {
		t.Fatalf("total = %s, want %s", got, want)
	}
}

func TestOrderTotalEmpty(t *testing.T) {
	if got := OrderTotal(nil); !got.IsZero() {
		t.Fatalf("total = %s, want 0", got)
	}
}

func TestOrderTotalNoFloatDrift(t *testing.T) {
	// 0.10 a thousand times is exactly 100.00 in decimal; binary floats drift.
	items := make([]models.OrderItem, 1000)
	for i := range items {
		items[i] = models.OrderItem{Quantity: 1, UnitPrice: decimal.RequireFromString("0.10")}
	}
	if got, want := OrderTotal(items), decimal.RequireFromString("100.00"); !got.Equal(want) {
		t.Fatalf("total = %s, want %s", got, want)
	}
}
