package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/fortune-api/api/types"
)

// ServiceName is reported by the root endpoint
const ServiceName = "Fortune API"

// Build information, set by the cmd package from linker flags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// Get handles version requests
// @Summary      Service version
// @Description  Returns the service name and build information
// @Tags         version
// @Produce      json
// @Success      200  {object}  types.VersionResponse
// @Router       / [get]
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, types.VersionResponse{
			Name:      ServiceName,
			Version:   Version,
			GitCommit: GitCommit,
			Status:    "running",
		})
	}
}
