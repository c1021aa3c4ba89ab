package repositories_test

import (
	"fmt"
	"testing"

	"katalog/internal/models"
	"katalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestGORMProductRepository_CRUD(t *testing.T) {
	repo := repositories.NewGORMProductRepository(openTestDB(t))

	require.NoError(t, repo.Create(models.NewProduct(2345, "Watch", 1000.29, 600)))
	require.NoError(t, repo.Create(models.NewProduct(1223, "Phone", 1200.39, 800)))
	assert.ErrorIs(t, repo.Create(models.NewProduct(1223, "Phone", 1, 1)), repositories.ErrProductExists)

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1223, all[0].ID)

	p, err := repo.GetByID(2345)
	require.NoError(t, err)
	assert.Equal(t, "Watch", p.Name)
	assert.Equal(t, 600, p.Stock)

	p.DecreaseStock(600)
	require.NoError(t, repo.Update(p))
	p, err = repo.GetByID(2345)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock, "zero stock must be persisted")

	assert.ErrorIs(t, repo.Update(models.NewProduct(77, "Ghost", 10, 10)), repositories.ErrProductNotFound)

	require.NoError(t, repo.Delete(2345))
	_, err = repo.GetByID(2345)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(2345), repositories.ErrProductNotFound)
}

func TestGORMUserRepository(t *testing.T) {
	repo := repositories.NewGORMUserRepository(openTestDB(t))

	user := &models.User{Username: "clerk", Email: "clerk@example.com", Password: "hash"}
	require.NoError(t, repo.Create(user))
	assert.NotEmpty(t, user.ID)

	byName, err := repo.GetByUsername("clerk")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByEmail("clerk@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByID("missing")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}
