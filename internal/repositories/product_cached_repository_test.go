package repositories_test

import (
	"context"
	"errors"
	"testing"

	"katalog/internal/models"
	"katalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockProductCache struct {
	mock.Mock
}

func (m *MockProductCache) Get(ctx context.Context, id int) (*models.Product, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Product), args.Bool(1), args.Error(2)
}

func (m *MockProductCache) Set(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductCache) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCachedProductRepository_GetByID(t *testing.T) {
	store := repositories.NewMockProductRepository()
	require.NoError(t, store.Create(models.NewProduct(100, "Pizza", 80.49, 20)))

	c := new(MockProductCache)
	repo := repositories.NewCachedProductRepository(store, c, zap.NewNop())

	// Miss: loaded from the store and written to the cache.
	c.On("Get", mock.Anything, 100).Return(nil, false, nil).Once()
	c.On("Set", mock.Anything, mock.MatchedBy(func(p *models.Product) bool { return p.ID == 100 })).Return(nil).Once()
	p, err := repo.GetByID(100)
	require.NoError(t, err)
	assert.Equal(t, "Pizza", p.Name)

	// Hit: the store is not consulted.
	cached := models.NewProduct(100, "Cached Pizza", 80.49, 20)
	c.On("Get", mock.Anything, 100).Return(cached, true, nil).Once()
	p, err = repo.GetByID(100)
	require.NoError(t, err)
	assert.Equal(t, "Cached Pizza", p.Name)

	// Cache failure falls through to the store.
	c.On("Get", mock.Anything, 100).Return(nil, false, errors.New("redis down")).Once()
	c.On("Set", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()
	p, err = repo.GetByID(100)
	require.NoError(t, err)
	assert.Equal(t, "Pizza", p.Name)

	c.AssertExpectations(t)
}

func TestCachedProductRepository_NotFoundIsNotCached(t *testing.T) {
	c := new(MockProductCache)
	repo := repositories.NewCachedProductRepository(repositories.NewMockProductRepository(), c, zap.NewNop())

	c.On("Get", mock.Anything, 7).Return(nil, false, nil).Once()
	_, err := repo.GetByID(7)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}

func TestCachedProductRepository_UpdateAndDeleteEvict(t *testing.T) {
	store := repositories.NewMockProductRepository()
	require.NoError(t, store.Create(models.NewProduct(100, "Pizza", 80.49, 20)))

	c := new(MockProductCache)
	repo := repositories.NewCachedProductRepository(store, c, zap.NewNop())

	c.On("Delete", mock.Anything, 100).Return(nil).Times(3)

	require.NoError(t, repo.Update(models.NewProduct(100, "Pizza", 80.49, 30)))
	p, err := repo.AdjustStock(100, -10)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Stock)
	// A refused adjustment changes nothing and leaves the cache alone.
	_, err = repo.AdjustStock(100, -13)
	assert.ErrorIs(t, err, repositories.ErrStockOutOfRange)
	require.NoError(t, repo.Delete(100))

	// A failed store write leaves the cache alone.
	assert.ErrorIs(t, repo.Delete(100), repositories.ErrProductNotFound)

	c.AssertExpectations(t)
}

// gatedStore pauses GetByID until released, so a write can land while a
// cache miss is loading.
type gatedStore struct {
	*repositories.MockProductRepository
	loading chan struct{}
	release chan struct{}
}

func (s *gatedStore) GetByID(id int) (*models.Product, error) {
	p, err := s.MockProductRepository.GetByID(id)
	close(s.loading)
	<-s.release
	return p, err
}

func TestCachedProductRepository_LoadOverlappingWriteIsEvicted(t *testing.T) {
	store := &gatedStore{
		MockProductRepository: repositories.NewMockProductRepository(),
		loading:               make(chan struct{}),
		release:               make(chan struct{}),
	}
	require.NoError(t, store.Create(models.NewProduct(100, "Pizza", 80.49, 20)))

	c := new(MockProductCache)
	repo := repositories.NewCachedProductRepository(store, c, zap.NewNop())

	c.On("Get", mock.Anything, 100).Return(nil, false, nil).Once()
	c.On("Set", mock.Anything, mock.MatchedBy(func(p *models.Product) bool { return p.Stock == 20 })).Return(nil).Once()
	c.On("Delete", mock.Anything, 100).Return(nil).Twice()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p, err := repo.GetByID(100)
		assert.NoError(t, err)
		assert.Equal(t, 20, p.Stock)
	}()

	<-store.loading
	require.NoError(t, repo.Update(models.NewProduct(100, "Pizza", 80.49, 30)))
	close(store.release)
	<-done

	// Once by the update and once more for the stale snapshot.
	c.AssertNumberOfCalls(t, "Delete", 2)
	c.AssertExpectations(t)
}
