package fortunes

import (
	"github.com/killallgit/fortune-api/internal/models"
	apperrors "github.com/killallgit/fortune-api/pkg/errors"
)

// validatePage rejects pages that cannot return any record
func validatePage(page models.Page) error {
	if page.Size <= 0 {
		return apperrors.ValidationError("size", "page size must be positive")
	}
	if page.Number < 0 {
		return apperrors.ValidationError("page", "page number must not be negative")
	}
	return nil
}
