package fortunes

import (
	"log/slog"

	fortuneService "github.com/killallgit/fortune-api/internal/services/fortunes"
)

// Controller serves the fortune routes from a repository
type Controller struct {
	repository fortuneService.Repository
	logger     *slog.Logger
}

// NewController creates a controller. Both arguments are required.
func NewController(repository fortuneService.Repository, logger *slog.Logger) *Controller {
	if repository == nil {
		panic("fortunes: nil repository")
	}
	if logger == nil {
		panic("fortunes: nil logger")
	}
	return &Controller{
		repository: repository,
		logger:     logger.With(slog.String("component", "fortune_controller")),
	}
}
