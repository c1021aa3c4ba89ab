package repositories

import (
	"errors"
	"fmt"
	"math"
	"time"

	"katalog/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products ordered by ID.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id int) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product. The caller chooses the ID.
func (r *GORMProductRepository) Create(product *models.Product) error {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check product ID %d: %w", product.ID, err)
	}
	if count > 0 {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrProductExists)
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites every column of an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	// Save would insert a missing row, so restrict to an update of the
	// existing primary key.
	res := r.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Select("name", "price", "stock", "updated_at").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrProductNotFound)
	}
	return nil
}

// Delete removes a product by its ID.
func (r *GORMProductRepository) Delete(id int) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return nil
}

// AdjustStock applies delta with a single conditional UPDATE, so concurrent
// adjustments are serialized by the database and never cross a limit.
func (r *GORMProductRepository) AdjustStock(id, delta int) (*models.Product, error) {
	var product models.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var affected int64
		// Zero and overflowing decreases can never be applied.
		if delta != 0 && (delta > 0 || delta >= models.MinStock-math.MaxInt) {
			q := tx.Model(&models.Product{}).Where("id = ?", id)
			if delta > 0 {
				q = q.Where("stock <= ?", models.MaxStock-delta)
			} else {
				q = q.Where("stock >= ?", models.MinStock-delta)
			}
			res := q.Updates(map[string]interface{}{
				"stock":      gorm.Expr("stock + ?", delta),
				"updated_at": time.Now(),
			})
			if res.Error != nil {
				return fmt.Errorf("failed to adjust stock: %w", res.Error)
			}
			affected = res.RowsAffected
		}

		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
			}
			return fmt.Errorf("failed to get product by ID %d: %w", id, err)
		}
		if affected == 0 {
			return fmt.Errorf("product with ID %d: %w", id, ErrStockOutOfRange)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}
