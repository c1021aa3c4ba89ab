package repositories_test

import (
	"testing"

	"katalog/internal/models"
	"katalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProductRepository_CRUD(t *testing.T) {
	repo := repositories.NewMockProductRepository()

	require.NoError(t, repo.Create(models.NewProduct(352, "Bottle", 25.20, 7600)))
	require.NoError(t, repo.Create(models.NewProduct(100, "Pizza", 80.49, 20)))

	err := repo.Create(models.NewProduct(100, "Other", 10, 10))
	assert.ErrorIs(t, err, repositories.ErrProductExists)

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 100, all[0].ID)
	assert.Equal(t, 352, all[1].ID)

	p, err := repo.GetByID(352)
	require.NoError(t, err)
	p.IncreaseStock(400)

	// The returned value is a copy until it is saved.
	stored, _ := repo.GetByID(352)
	assert.Equal(t, 7600, stored.Stock)

	require.NoError(t, repo.Update(p))
	stored, _ = repo.GetByID(352)
	assert.Equal(t, 8000, stored.Stock)
	assert.False(t, stored.CreatedAt.IsZero())

	require.NoError(t, repo.Delete(352))
	_, err = repo.GetByID(352)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(352), repositories.ErrProductNotFound)
	assert.ErrorIs(t, repo.Update(models.NewProduct(999, "Ghost", 10, 10)), repositories.ErrProductNotFound)
}
