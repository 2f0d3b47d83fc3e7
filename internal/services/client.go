package services

import (
	"errors"

	"github.com/empresadev/gestao-api/internal/models"
	"gorm.io/gorm"
)

// ClientService owns the referential guard around client deletion.
type ClientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService { return &ClientService{db: db} }

// CanDelete reports whether the client has no orders referencing it and may
// therefore be removed outright.
func (s *ClientService) CanDelete(clientID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Order{}).Where("client_id = ?", clientID).Count(&count).Error; err != nil {
		return false, &StorageError{Op: "count client orders", Err: err}
	}
	return count == 0, nil
}

// Delete removes the client when nothing references it; otherwise it flips
// Active off and keeps the row so order history still resolves. The returned
// flag is true for a hard delete, false for a deactivation.
func (s *ClientService) Delete(clientID uint) (bool, error) {
	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, &NotFoundError{Entity: "client", ID: clientID}
		}
		return false, &StorageError{Op: "load client", Err: err}
	}
	allowed, err := s.CanDelete(clientID)
	if err != nil {
		return false, err
	}
	if !allowed {
		if err := s.db.Model(&client).Update("active", false).Error; err != nil {
			return false, &StorageError{Op: "deactivate client", Err: err}
		}
		return false, nil
	}
	if err := s.db.Delete(&client).Error; err != nil {
		return false, &StorageError{Op: "delete client", Err: err}
	}
	return true, nil
}
