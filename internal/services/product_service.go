package services

import (
	"bidmaster/internal/models"
	"bidmaster/internal/repositories"
)

// ProductService handles business logic related to the catalog. The
// order/wallet core only reads products; the write operations back the
// admin surface.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product. New products default to live.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.Status == "" {
		product.Status = models.ProductStatusLive
	}
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// SetProductStatus changes a product's availability state (live, draft, or
// hold). Orders already placed against the product are unaffected.
func (s *ProductService) SetProductStatus(id string, status models.ProductStatus) (*models.Product, error) {
	switch status {
	case models.ProductStatusLive, models.ProductStatusDraft, models.ProductStatusHold:
	default:
		return nil, models.NewValidationError("status", "status must be live, draft, or hold")
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.Status = status
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
