package fortunes

import (
	"context"
	"fmt"

	"github.com/killallgit/fortune-api/internal/models"
	apperrors "github.com/killallgit/fortune-api/pkg/errors"
	"gorm.io/gorm"
)

// RepositoryImpl implements Repository on top of gorm
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new gorm-backed fortune repository
func NewRepository(db *gorm.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// FindAll returns every fortune ordered by id
func (r *RepositoryImpl) FindAll(ctx context.Context) ([]models.Fortune, error) {
	fortunes := make([]models.Fortune, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&fortunes).Error; err != nil {
		return nil, apperrors.DatabaseError("find all fortunes", err)
	}
	return fortunes, nil
}

// FindRandom returns one page of fortunes in random order
func (r *RepositoryImpl) FindRandom(ctx context.Context, page models.Page) ([]models.Fortune, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}

	fortunes := make([]models.Fortune, 0, page.Size)
	if err := r.db.WithContext(ctx).
		Order("RANDOM()").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&fortunes).Error; err != nil {
		return nil, apperrors.DatabaseError("find random fortunes", err)
	}
	return fortunes, nil
}

// Count returns the number of stored fortunes
func (r *RepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Fortune{}).Count(&count).Error; err != nil {
		return 0, apperrors.DatabaseError("count fortunes", err)
	}
	return count, nil
}

// Create inserts a new fortune
func (r *RepositoryImpl) Create(ctx context.Context, fortune *models.Fortune) error {
	if fortune.Text == "" {
		return apperrors.ValidationError("text", "fortune text is required")
	}
	if err := r.db.WithContext(ctx).Create(fortune).Error; err != nil {
		return fmt.Errorf("creating fortune: %w", err)
	}
	return nil
}
