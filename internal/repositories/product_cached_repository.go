package repositories

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"katalog/internal/cache"
	"katalog/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedProductRepository is a cache-aside decorator over another
// ProductRepository. Cache failures are logged and fall through to the store.
//
// writes counts completed store writes. A load that overlaps a write drops
// the snapshot it cached, since it may predate the write.
type CachedProductRepository struct {
	store   ProductRepository
	cache   cache.ProductCache
	group   singleflight.Group
	writes  atomic.Uint64
	timeout time.Duration
	logger  *zap.Logger
}

// NewCachedProductRepository wraps store with c.
func NewCachedProductRepository(store ProductRepository, c cache.ProductCache, logger *zap.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		store:   store,
		cache:   c,
		timeout: 500 * time.Millisecond,
		logger:  logger,
	}
}

func (r *CachedProductRepository) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

// GetAll always reads from the store.
func (r *CachedProductRepository) GetAll() ([]models.Product, error) {
	return r.store.GetAll()
}

// GetByID serves from the cache when possible. Concurrent misses for the
// same ID share one store read.
func (r *CachedProductRepository) GetByID(id int) (*models.Product, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	if p, ok, err := r.cache.Get(ctx, id); err != nil {
		r.logger.Warn("product cache read failed", zap.Int("product_id", id), zap.Error(err))
	} else if ok {
		return p, nil
	}

	v, err, _ := r.group.Do(strconv.Itoa(id), func() (interface{}, error) {
		before := r.writes.Load()
		p, err := r.store.GetByID(id)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Set(ctx, p); err != nil {
			r.logger.Warn("product cache write failed", zap.Int("product_id", id), zap.Error(err))
			return p, nil
		}
		if r.writes.Load() != before {
			r.evict(id)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	// Callers may mutate the product, so hand out a private copy.
	p := *v.(*models.Product)
	return &p, nil
}

// Create writes through to the store.
func (r *CachedProductRepository) Create(product *models.Product) error {
	return r.store.Create(product)
}

// Update writes to the store, then evicts the cached snapshot.
func (r *CachedProductRepository) Update(product *models.Product) error {
	if err := r.store.Update(product); err != nil {
		return err
	}
	r.written(product.ID)
	return nil
}

// Delete removes from the store, then evicts the cached snapshot.
func (r *CachedProductRepository) Delete(id int) error {
	if err := r.store.Delete(id); err != nil {
		return err
	}
	r.written(id)
	return nil
}

// AdjustStock writes through to the store, then evicts the cached snapshot.
func (r *CachedProductRepository) AdjustStock(id, delta int) (*models.Product, error) {
	p, err := r.store.AdjustStock(id, delta)
	if err != nil {
		return nil, err
	}
	r.written(id)
	return p, nil
}

func (r *CachedProductRepository) written(id int) {
	r.writes.Add(1)
	r.evict(id)
}

func (r *CachedProductRepository) evict(id int) {
	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.cache.Delete(ctx, id); err != nil {
		r.logger.Warn("product cache eviction failed", zap.Int("product_id", id), zap.Error(err))
	}
}
