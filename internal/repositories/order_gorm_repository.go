package repositories

import (
	"errors"
	"fmt"

	"bidmaster/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders from the database, newest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByUserID retrieves a user's orders from the database, newest first.
func (r *GORMOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID from the database.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create inserts a new order. The primary key constraint rejects ID
// collisions.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update writes back a loaded order, guarded by its version so concurrent
// writers cannot silently overwrite each other. On success the order's
// version is bumped both in the database and on the passed struct.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	prev := order.Version
	order.Version = prev + 1

	res := r.db.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, prev).
		Select("*").Omit("id", "created_at").
		Updates(order)
	if res.Error != nil {
		order.Version = prev
		return fmt.Errorf("failed to update order %s: %w", order.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		order.Version = prev
		// Either the order is gone or somebody else won the race.
		var count int64
		if err := r.db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count).Error; err == nil && count == 0 {
			return fmt.Errorf("order with ID %s for update: %w", order.ID, models.ErrNotFound)
		}
		return fmt.Errorf("order with ID %s: %w", order.ID, models.ErrConflict)
	}
	return nil
}
