package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/empresadev/gestao-api/internal/db"
	"github.com/empresadev/gestao-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// seed a client and two products for order scenarios
func seedOrderFixtures(t *testing.T, conn *gorm.DB) (client models.Client, p1, p2 models.Product) {
	t.Helper()
	supplier := models.Supplier{Name: "Distribuidora A", CNPJ: "11222333000144"}
	if err := conn.Create(&supplier).Error; err != nil {
		t.Fatalf("supplier: %v", err)
	}
	client = models.Client{Name: "ClienteCo", CPFCNPJ: "12345678901", Contact: "c@test", Active: true}
	if err := conn.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	p1 = models.Product{Name: "Caderno", Price: decimal.RequireFromString("5.00"), Quantity: 100, SupplierID: supplier.ID}
	p2 = models.Product{Name: "Caneta", Price: decimal.RequireFromString("3.50"), Quantity: 200, SupplierID: supplier.ID}
	if err := conn.Create(&p1).Error; err != nil {
		t.Fatalf("p1: %v", err)
	}
	if err := conn.Create(&p2).Error; err != nil {
		t.Fatalf("p2: %v", err)
	}
	return
}

func mustCreateOrder(t *testing.T, svc *OrderService, clientID uint, items []ItemInput) uint {
	t.Helper()
	id, err := svc.Create(clientID, items)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return id
}

func TestCreateOrderComputesTotal(t *testing.T) {
	conn := setupOrderTestDB(t)
	client, p1, p2 := seedOrderFixtures(t, conn)
	svc := NewOrderService(conn)

	id := mustCreateOrder(t, svc, client.ID, []ItemInput{
		{ProductID: p1.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
		{ProductID: p2.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("3.50")},
	})
	if id == 0 {
		t.Fatal("expected non-zero order id")
	}

	detail, err := svc.Get(id)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if want := decimal.RequireFromString("13.50"); !detail.Total.Equal(want) {
		t.Fatalf("total = %s, want %s", detail.Total, want)
	}
	if detail.Status != models.OrderStatusPending {
		t.Fatalf("status = %q, want %q", detail.Status, models.OrderStatusPending)
	}
	if detail.ClientName != client.Name {
		t.Fatalf("clientName = %q, want %q", detail.ClientName, client.Name)
	}
	if len(detail.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(detail.Items))
	}
	if detail.Items[0].ProductName != "Caderno" || detail.Items[1].ProductName != "Caneta" {
		t.Fatalf("unexpected item product names: %+v", detail.Items)
	}
	if detail.Date == "" {
		t.Fatal("expected date to be set")
	}
}

func TestCreateOrderValidation(t *testing.T) {
	conn := setupOrderTestDB(t)
	client, p1, _ := seedOrderFixtures(t, conn)
	svc := NewOrderService(conn)

	cases := []struct {
		name     string
		clientID uint
		items    []ItemInput
	}{
		{"missing client", 0, []ItemInput{{ProductID: p1.ID, Quantity: 1, UnitPrice: decimal.New(1, 0)}}},
		{"empty items", client.ID, nil},
		{"zero quantity", client.ID, []ItemInput{{ProductID: p1.ID, Quantity: 0, UnitPrice: decimal.New(1, 0)}}},
		{"negative quantity", client.ID, []ItemInput{{ProductID: p1.ID, Quantity: -2, UnitPrice: decimal.New(1, 0)}}},
		{"negative price", client.ID, []ItemInput{{ProductID: p1.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("-0.01")}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(tc.clientID, tc.items)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
	// nothing may have been written
	var count int64
	conn.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("orders persisted = %d, want 0", count)
	}
}

func TestCreateOrderUnknownClient(t *testing.T) {
	conn := setupOrderTestDB(t)
	_, p1, _ := seedOrderFixtures(t, conn)
	svc := NewOrderService(conn)

	_, err := svc.Create(999, []ItemInput{{ProductID: p1.ID, Quantity: 1, UnitPrice: decimal.New(1, 0)}})
	var re *ReferenceError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want ReferenceError", err)
	}
	if re.Entity != "client" || re.ID != 999 {
		t.Fatalf("unexpected reference error: %+v", re)
	}
}

func TestCreateOrderUnknownProductRollsBack(t *testing.T) {
	conn := setupOrderTestDB(t)
	client, p1, _ := seedOrderFixtures(t, conn)
	svc := NewOrderService(conn)

	_, err := svc.Create(client.ID, []ItemInput{
		{ProductID: p1.ID, Quantity: 1, UnitPrice: decimal.New(5, 0)},
		{ProductID: 12345, Quantity: 1, UnitPrice: decimal.New(5, 0)},
	})
	var re *ReferenceError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want ReferenceError", err)
	}
	if re.Entity != "product" {
		t.Fatalf("entity = %q, want product", re.Entity)
	}
	// the whole create must have rolled back: no order, no orphan items
	var orders, items int64
	conn.Model(&models.Order{}).Count(&orders)
	conn.Model(&models.OrderItem{}).Count(&items)
	if orders != 0 || items != 0 {
		t.Fatalf("orders=%d items=%d after failed create, want 0/0", orders, items)
	}
}

func TestUpdateOrderReplacesItems(t *testing.T) {
	conn := setupOrderTestDB(t)
	client, p1, p2 := seedOrderFixtures(t, conn)
	svc := NewOrderService(conn)

	id := mustCreateOrder(t, svc, client.ID, []ItemInput{
		{ProductID: p1.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
	})

	newItems := []ItemInput{{ProductID: p2.ID, Quantity: 3, UnitPrice: decimal.RequireFromString("3.50")}}
	if err := svc.Update(id, UpdateOrderInput{Items: &newItems}); err != nil {
		t.Fatalf("update: %v", err)
	}
	detail, err := svc.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Items) != 1 || detail.Items[0].ProductID != p2.ID {
		t.Fatalf("old items survived the replacement: %+v", detail.Items)
	}
	if want := decimal.RequireFromString("10.50"); !detail.Total.Equal(want) {
		t.Fatalf("total = %s, want %s", detail.Total, want)
	}
}

func TestUpdateOrderEmptyItemsZeroesTotal(t *testing.T) {
	conn := setupOrderTestDB(t)
	client, p1, _ := seedOrderFixtures(t, conn)
	svc := NewOrderService(conn)

	id := mustCreateOrder(t, svc, client.ID, []ItemInput{
		{ProductID: p1.ID, Quantity: 4, UnitPrice: decimal.RequireFromString("2.25")},
	})

	empty := []ItemInput{}
	if err := svc.Update(id, UpdateOrderInput{Items: &empty}); err != nil {
		t.Fatalf("update: %v", err)
	}
	detail, err := svc.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Items) != 0 {
		t.Fatalf("items = %d, want 0", len(detail.Items))
	}
	if !detail.Total.IsZero() {
		t.Fatalf("total = %s, want 0", detail.Total)
	}
}

func TestUpdateOrderStatusOnlyLeavesItemsAlone(t *testing.T) {
	conn := setupOrderTestDB(t)
	client, p1, _ := seedOrderFixtures(t, conn)
	svc := NewOrderService(conn)

	id := mustCreateOrder(t, svc, client.ID, []ItemInput{
		{ProductID: p1.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
	})

	status := models.OrderStatusCompleted
	// twice with the same value: observable state must be identical both times
	for i := 0; i < 2; i++ {
		if err := svc.Update(id, UpdateOrderInput{Status: &status}); err != nil {
			t.Fatalf("update #%d: %v", i+1, err)
		}
		detail, err := svc.Get(id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if detail.Status != models.OrderStatusCompleted {
			t.Fatalf("status = %q, want Completed", detail.Status)
		}
		if len(detail.Items) != 1 {
			t.Fatalf("items = %d, want 1 (untouched)", len(detail.Items))
		}
		if want := decimal.RequireFromString("10.00"); !detail.Total.Equal(want) {
			t.Fatalf("total = %s, want %s (untouched)", detail.Total, want)
		}
	}

	// the reverse transition is accepted as well
	back := models.OrderStatusPending
	if err := svc.Update(id, UpdateOrderInput{Status: &back}); err != nil {
		t.Fatalf("revert status: %v", err)
	}
}

func TestUpdateOrderValidation(t *testing.T) {
	conn := setupOrderTestDB(t)
	client, p1, _ := seedOrderFixtures(t, conn)
	svc := NewOrderService(conn)

	id := mustCreateOrder(t, svc, client.ID, []ItemInput{
		{ProductID: p1.ID, Quantity: 1, UnitPrice: decimal.New(5, 0)},
	})

	var ve *ValidationError
	if err := svc.Update(id, UpdateOrderInput{}); !errors.As(err, &ve) {
		t.Fatalf("empty update: err = %v, want ValidationError", err)
	}
	bad := "Shipped"
	if err := svc.Update(id, UpdateOrderInput{Status: &bad}); !errors.As(err, &ve) {
		t.Fatalf("bad status: err = %v, want ValidationError", err)
	}
}

func TestUpdateOrderNotFound(t *testing.T) {
	conn := setupOrderTestDB(t)
	seedOrderFixtures(t, conn)
	svc := NewOrderService(conn)

	status := models.OrderStatusCompleted
	err := svc.Update(424242, UpdateOrderInput{Status: &status})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestUpdateOrderUnknownClientReference(t *testing.T) {
	conn := setupOrderTestDB(t)
	client, p1, _ := seedOrderFixtures(t, conn)
	svc := NewOrderService(conn)

	id := mustCreateOrder(t, svc, client.ID, []ItemInput{
		{ProductID: p1.ID, Quantity: 1, UnitPrice: decimal.New(5, 0)},
	})
	ghost := uint(999)
	err := svc.Update(id, UpdateOrderInput{ClientID: &ghost})
	var re *ReferenceError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want ReferenceError", err)
	}
}

func TestDeleteOrderCascades(t *testing.T) {
	conn := setupOrderTestDB(t)
	client, p1, p2 := seedOrderFixtures(t, conn)
	svc := NewOrderService(conn)

	id := mustCreateOrder(t, svc, client.ID, []ItemInput{
		{ProductID: p1.ID, Quantity: 1, UnitPrice: decimal.New(5, 0)},
		{ProductID: p2.ID, Quantity: 2, UnitPrice: decimal.New(3, 0)},
	})
	if err := svc.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var items int64
	conn.Model(&models.OrderItem{}).Where("order_id = ?", id).Count(&items)
	if items != 0 {
		t.Fatalf("items referencing deleted order = %d, want 0", items)
	}
	var nf *NotFoundError
	if _, err := svc.Get(id); !errors.As(err, &nf) {
		t.Fatalf("get after delete: err = %v, want NotFoundError", err)
	}
}

func TestDeleteOrderNotFound(t *testing.T) {
	conn := setupOrderTestDB(t)
	svc := NewOrderService(conn)

	err := svc.Delete(42)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}
