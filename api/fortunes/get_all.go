package fortunes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/fortune-api/api/types"
)

// List returns every stored fortune
// @Summary List fortunes
// @Description Returns every fortune in the store, ordered by id. An empty store returns an empty array.
// @Tags fortunes
// @Produce json
// @Success 200 {array} models.Fortune "All fortunes"
// @Failure 500 {object} types.ErrorResponse "Store unavailable"
// @Failure 429 {object} types.ErrorResponse "Rate limit exceeded"
// @Router /fortunes [get]
func (ctl *Controller) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		fortunes, err := ctl.repository.FindAll(c.Request.Context())
		if err != nil {
			ctl.logger.ErrorContext(c.Request.Context(), "listing fortunes failed", slog.Any("error", err))
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, fortunes)
	}
}
