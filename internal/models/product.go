package models

import "gorm.io/gorm"

// ProductStatus is the catalog visibility/availability state of a product.
type ProductStatus string

const (
	ProductStatusLive  ProductStatus = "live"
	ProductStatusDraft ProductStatus = "draft"
	// ProductStatusHold marks a product unavailable for purchase. The
	// checkout flow enforces this, not the catalog.
	ProductStatusHold ProductStatus = "hold"
)

// Product represents a catalog item. The order/wallet core only reads
// products; management is an admin concern.
type Product struct {
	ID          string        `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string        `json:"title" validate:"required,min=3,max=100"`
	Description string        `json:"description" validate:"omitempty,max=500"`
	Price       float64       `json:"price" validate:"required,gt=0"`
	Status      ProductStatus `json:"status" validate:"omitempty,oneof=live draft hold"`
	gorm.Model                // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
