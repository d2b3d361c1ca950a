package fortunes

import (
	"context"
	"testing"

	"github.com/killallgit/fortune-api/internal/models"
	apperrors "github.com/killallgit/fortune-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Fortune{}), "Failed to migrate test database")

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createFortunes(t *testing.T, repo *RepositoryImpl, texts ...string) []models.Fortune {
	created := make([]models.Fortune, 0, len(texts))
	for _, text := range texts {
		f := &models.Fortune{Text: text}
		require.NoError(t, repo.Create(context.Background(), f))
		created = append(created, *f)
	}
	return created
}

func TestRepository_FindAll(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store returns empty slice", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))

		fortunes, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, fortunes)
		assert.Empty(t, fortunes)
	})

	t.Run("returns every fortune in insertion order", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))
		created := createFortunes(t, repo, "first", "second", "third")

		fortunes, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, created, fortunes)
	})

	t.Run("repeated calls return identical results", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))
		createFortunes(t, repo, "a", "b")

		first, err := repo.FindAll(ctx)
		require.NoError(t, err)
		second, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestRepository_FindRandom(t *testing.T) {
	ctx := context.Background()

	t.Run("single record store always returns that record", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))
		created := createFortunes(t, repo, "You will find success.")

		fortunes, err := repo.FindRandom(ctx, models.FirstPage(1))
		require.NoError(t, err)
		require.Len(t, fortunes, 1)
		assert.Equal(t, created[0], fortunes[0])
	})

	t.Run("page of one returns a member of the store", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))
		created := createFortunes(t, repo, "one", "two")

		for i := 0; i < 20; i++ {
			fortunes, err := repo.FindRandom(ctx, models.FirstPage(1))
			require.NoError(t, err)
			require.Len(t, fortunes, 1)
			assert.Contains(t, created, fortunes[0])
		}
	})

	t.Run("page size bounds the result", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))
		createFortunes(t, repo, "a", "b", "c", "d")

		fortunes, err := repo.FindRandom(ctx, models.FirstPage(3))
		require.NoError(t, err)
		assert.Len(t, fortunes, 3)

		fortunes, err = repo.FindRandom(ctx, models.Page{Number: 1, Size: 3})
		require.NoError(t, err)
		assert.Len(t, fortunes, 1)
	})

	t.Run("empty store returns no records", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))

		fortunes, err := repo.FindRandom(ctx, models.FirstPage(1))
		require.NoError(t, err)
		assert.Empty(t, fortunes)
	})

	t.Run("rejects invalid pages", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))

		_, err := repo.FindRandom(ctx, models.FirstPage(0))
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))

		_, err = repo.FindRandom(ctx, models.Page{Number: -1, Size: 1})
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
	})
}

func TestRepository_CountAndCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	f := &models.Fortune{Text: "Do what works."}
	require.NoError(t, repo.Create(ctx, f))
	assert.NotZero(t, f.ID)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	err = repo.Create(ctx, &models.Fortune{})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
}

func TestRepository_ClosedDatabase(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.FindAll(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeDatabaseQuery))

	_, err = repo.FindRandom(context.Background(), models.FirstPage(1))
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeDatabaseQuery))
}
