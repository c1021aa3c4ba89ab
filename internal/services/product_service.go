package services

import (
	"errors"
	"fmt"

	"katalog/internal/models"
	"katalog/internal/repositories"

	"go.uber.org/zap"
)

// StockEventPublisher receives an event after every saved stock adjustment.
type StockEventPublisher interface {
	PublishStockEvent(event models.StockEvent) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher StockEventPublisher
	logger    *zap.Logger
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case stock events are skipped.
func NewProductService(repo repositories.ProductRepository, publisher StockEventPublisher, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id int) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// ValidateProduct returns the outcome of every field validator.
func (s *ProductService) ValidateProduct(product *models.Product) []models.FieldResult {
	return product.Validate()
}

// CreateProduct stores a product whose fields all pass validation.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if bad := failing(product.Validate()); len(bad) > 0 {
		return &ValidationError{Results: bad}
	}
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.logger.Info("product created", zap.Int("product_id", product.ID), zap.String("name", product.Name))
	return nil
}

// UpdateProduct replaces a stored product whose fields all pass validation.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if bad := failing(product.Validate()); len(bad) > 0 {
		return &ValidationError{Results: bad}
	}
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.logger.Info("product updated", zap.Int("product_id", product.ID))
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id int) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.Int("product_id", id))
	return nil
}

// IncreaseStock checks the adjustment against the stored stock before
// applying it.
func (s *ProductService) IncreaseStock(id, amount int) (*models.Product, error) {
	return s.adjustStock(id, amount, models.StockIncreased)
}

// DecreaseStock checks the adjustment against the stored stock before
// applying it.
func (s *ProductService) DecreaseStock(id, amount int) (*models.Product, error) {
	return s.adjustStock(id, amount, models.StockDecreased)
}

func (s *ProductService) adjustStock(id, amount int, kind models.StockEventKind) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	delta := amount
	outcome := product.CanIncrease(amount)
	if kind == models.StockDecreased {
		delta = -amount
		outcome = product.CanDecrease(amount)
	}
	if !outcome.Valid() {
		return nil, s.refuse(id, kind, amount, outcome)
	}

	// The stock may have moved since it was read; the store applies the
	// change only if the limit still holds.
	product, err = s.repo.AdjustStock(id, delta)
	if errors.Is(err, repositories.ErrStockOutOfRange) {
		outcome = models.IncreaseExceedsMaximum
		if kind == models.StockDecreased {
			outcome = models.DecreaseBelowMinimum
		}
		return nil, s.refuse(id, kind, amount, outcome)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save stock for product %d: %w", id, err)
	}

	s.logger.Info("stock adjusted",
		zap.Int("product_id", id),
		zap.String("kind", string(kind)),
		zap.Int("amount", amount),
		zap.Int("stock", product.Stock))
	s.publish(models.NewStockEvent(product, kind, amount))
	return product, nil
}

func (s *ProductService) refuse(id int, kind models.StockEventKind, amount int, outcome models.Outcome) error {
	s.logger.Debug("stock adjustment refused",
		zap.Int("product_id", id),
		zap.String("kind", string(kind)),
		zap.Int("amount", amount),
		zap.String("outcome", outcome.Code()))
	return &ValidationError{Results: []models.FieldResult{{Field: models.FieldAmount, Outcome: outcome}}}
}

func (s *ProductService) publish(event models.StockEvent) {
	if s.publisher == nil {
		s.logger.Debug("stock event publisher not configured, skipping", zap.String("event_id", event.ID))
		return
	}
	if err := s.publisher.PublishStockEvent(event); err != nil {
		s.logger.Warn("failed to publish stock event",
			zap.String("event_id", event.ID),
			zap.Int("product_id", event.ProductID),
			zap.Error(err))
	}
}
