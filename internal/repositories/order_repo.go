package repositories

import (
	"bidmaster/internal/models"
)

// OrderRepository defines the interface for order data access.
//
// Update is optimistic: the order's Version field must match the stored
// version or the call fails with models.ErrConflict, so two writers racing
// on the same order cannot lose each other's changes. The repository bumps
// the version on every successful update. Orders are never deleted.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
}
