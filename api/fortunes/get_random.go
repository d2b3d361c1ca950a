package fortunes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/fortune-api/api/types"
	"github.com/killallgit/fortune-api/internal/models"
	apperrors "github.com/killallgit/fortune-api/pkg/errors"
)

// Random returns a single fortune picked by the store
// @Summary Get a random fortune
// @Description Returns exactly one fortune chosen at random from the store. Fails when the store is empty.
// @Tags fortunes
// @Produce json
// @Success 200 {object} models.Fortune "A random fortune"
// @Failure 500 {object} types.ErrorResponse "Store unavailable or empty"
// @Failure 429 {object} types.ErrorResponse "Rate limit exceeded"
// @Router /random [get]
func (ctl *Controller) Random() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		ctl.logger.DebugContext(ctx, "handling request to /random")
		ctl.logger.InfoContext(ctx, "SR: received call to /random")

		fortunes, err := ctl.repository.FindRandom(ctx, models.FirstPage(1))

		ctl.logger.InfoContext(ctx, "SS: responding to call to /random")

		if err != nil {
			ctl.logger.ErrorContext(ctx, "random fortune lookup failed", slog.Any("error", err))
			types.SendError(c, err)
			return
		}
		if len(fortunes) == 0 {
			ctl.logger.WarnContext(ctx, "random fortune requested from an empty store")
			types.SendError(c, apperrors.EmptyStoreError("fortunes"))
			return
		}

		types.SendSuccess(c, fortunes[0])
	}
}
