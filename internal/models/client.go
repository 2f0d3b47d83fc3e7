package models

import "time"

// Client entity. Active is the soft-delete flag: a client with existing
// orders is deactivated instead of removed so order history keeps resolving.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	CPFCNPJ   string    `gorm:"column:cpf_cnpj;not null;uniqueIndex" json:"cpf_cnpj"`
	Contact   string    `json:"contact"`
	Address   string    `json:"address"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
