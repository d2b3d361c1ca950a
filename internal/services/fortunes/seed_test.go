package fortunes

import (
	"context"
	"errors"
	"testing"

	"github.com/killallgit/fortune-api/internal/models"
	"github.com/killallgit/fortune-api/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindAll(ctx context.Context) ([]models.Fortune, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fortune), args.Error(1)
}

func (m *MockRepository) FindRandom(ctx context.Context, page models.Page) ([]models.Fortune, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fortune), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, fortune *models.Fortune) error {
	args := m.Called(ctx, fortune)
	return args.Error(0)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("populates an empty store", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))

		created, err := Seed(ctx, repo, DefaultFortunes, logging.Discard())
		require.NoError(t, err)
		assert.Equal(t, len(DefaultFortunes), created)

		fortunes, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, fortunes, len(DefaultFortunes))
		for i, f := range fortunes {
			assert.Equal(t, DefaultFortunes[i], f.Text)
		}
	})

	t.Run("is a no-op on a populated store", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))
		createFortunes(t, repo, "existing")

		created, err := Seed(ctx, repo, DefaultFortunes, logging.Discard())
		require.NoError(t, err)
		assert.Zero(t, created)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("stops on count error", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("Count", ctx).Return(int64(0), errors.New("database error"))

		_, err := Seed(ctx, mockRepo, DefaultFortunes, logging.Discard())
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("reports partial progress on create error", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("Count", ctx).Return(int64(0), nil)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Fortune")).Return(nil).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Fortune")).Return(errors.New("disk full")).Once()

		created, err := Seed(ctx, mockRepo, []string{"a", "b", "c"}, logging.Discard())
		assert.Error(t, err)
		assert.Equal(t, 1, created)
		mockRepo.AssertExpectations(t)
	})
}
