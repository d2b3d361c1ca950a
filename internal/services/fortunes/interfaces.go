package fortunes

import (
	"context"

	"github.com/killallgit/fortune-api/internal/models"
)

// Repository defines the interface for fortune data access
type Repository interface {
	// Read operations
	FindAll(ctx context.Context) ([]models.Fortune, error)
	FindRandom(ctx context.Context, page models.Page) ([]models.Fortune, error)
	Count(ctx context.Context) (int64, error)

	// Create operations
	Create(ctx context.Context, fortune *models.Fortune) error
}

// HealthChecker is implemented by stores that can report their connectivity
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
