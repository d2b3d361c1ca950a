package types

import (
	"log/slog"

	"github.com/killallgit/fortune-api/internal/services/cache"
	"github.com/killallgit/fortune-api/internal/services/fortunes"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	Fortunes fortunes.Repository
	Store    fortunes.HealthChecker
	Cache    cache.Cache
	Logger   *slog.Logger
}
