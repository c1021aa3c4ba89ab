package repositories

import (
	"errors"

	"katalog/internal/models"
)

var (
	// ErrProductNotFound is returned when no product has the requested ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductExists is returned by Create when the ID is already taken.
	ErrProductExists = errors.New("product already exists")
	// ErrStockOutOfRange is returned by AdjustStock when the change would
	// cross the stock limit it moves towards.
	ErrStockOutOfRange = errors.New("stock adjustment out of range")
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id int) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id int) error
	// AdjustStock atomically adds delta to the stored stock. A positive delta
	// must keep stock at or below models.MaxStock, a negative one at or above
	// models.MinStock; otherwise nothing changes and ErrStockOutOfRange is
	// returned. A zero delta is out of range.
	AdjustStock(id, delta int) (*models.Product, error)
}
