package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/fortune-api/api/types"
)

const pingTimeout = 2 * time.Second

// Get handles health check requests
// @Summary      Health check
// @Description  Reports service liveness and fortune store connectivity
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Failure      503  {object}  types.HealthResponse
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.HealthResponse{
			Status:    types.StatusOK,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Database:  getDatabaseStatus(c.Request.Context(), deps),
		}

		status := http.StatusOK
		if response.Database["status"] == "unhealthy" {
			response.Status = types.StatusError
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, response)
	}
}

// getDatabaseStatus returns the store connection status
func getDatabaseStatus(ctx context.Context, deps *types.Dependencies) map[string]string {
	if deps == nil || deps.Store == nil {
		return map[string]string{"status": "not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := deps.Store.HealthCheck(ctx); err != nil {
		return map[string]string{"status": "unhealthy", "error": err.Error()}
	}

	return map[string]string{"status": "healthy"}
}
