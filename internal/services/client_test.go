package services

import (
	"errors"
	"testing"

	"github.com/empresadev/gestao-api/internal/models"
	"github.com/shopspring/decimal"
)

func TestCanDeleteClient(t *testing.T) {
	conn := setupOrderTestDB(t)
	client, p1, _ := seedOrderFixtures(t, conn)
	orders := NewOrderService(conn)
	clients := NewClientService(conn)

	allowed, err := clients.CanDelete(client.ID)
	if err != nil {
		t.Fatalf("can-delete: %v", err)
	}
	if !allowed {
		t.Fatal("expected deletion to be allowed with no orders")
	}

	orderID := mustCreateOrder(t, orders, client.ID, []ItemInput{
		{ProductID: p1.ID, Quantity: 1, UnitPrice: decimal.New(5, 0)},
	})

	allowed, err = clients.CanDelete(client.ID)
	if err != nil {
		t.Fatalf("can-delete: %v", err)
	}
	if allowed {
		t.Fatal("expected deletion to be blocked while an order exists")
	}

	// removing the order lifts the guard
	if err := orders.Delete(orderID); err != nil {
		t.Fatalf("delete order: %v", err)
	}
	allowed, err = clients.CanDelete(client.ID)
	if err != nil {
		t.Fatalf("can-delete: %v", err)
	}
	if !allowed {
		t.Fatal("expected deletion to be allowed after orders removed")
	}
}

func TestDeleteClientSoftDeletesWhenGuarded(t *testing.T) {
	conn := setupOrderTestDB(t)
	client, p1, _ := seedOrderFixtures(t, conn)
	orders := NewOrderService(conn)
	clients := NewClientService(conn)

	mustCreateOrder(t, orders, client.ID, []ItemInput{
		{ProductID: p1.ID, Quantity: 1, UnitPrice: decimal.New(5, 0)},
	})

	deleted, err := clients.Delete(client.ID)
	if err != nil {
		t.Fatalf("delete client: %v", err)
	}
	if deleted {
		t.Fatal("expected deactivation, not hard delete")
	}
	var stored models.Client
	if err := conn.First(&stored, client.ID).Error; err != nil {
		t.Fatalf("client row must survive: %v", err)
	}
	if stored.Active {
		t.Fatal("expected client to be inactive")
	}
}

func TestDeleteClientHardDeletesWhenUnreferenced(t *testing.T) {
	conn := setupOrderTestDB(t)
	client, _, _ := seedOrderFixtures(t, conn)
	clients := NewClientService(conn)

	deleted, err := clients.Delete(client.ID)
	if err != nil {
		t.Fatalf("delete client: %v", err)
	}
	if !deleted {
		t.Fatal("expected hard delete with no orders")
	}
	var count int64
	conn.Model(&models.Client{}).Where("id = ?", client.ID).Count(&count)
	if count != 0 {
		t.Fatal("client row should be gone")
	}
}

func TestDeleteClientNotFound(t *testing.T) {
	conn := setupOrderTestDB(t)
	clients := NewClientService(conn)

	_, err := clients.Delete(777)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}
