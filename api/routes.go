package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/fortune-api/api/fortunes"
	"github.com/killallgit/fortune-api/api/health"
	"github.com/killallgit/fortune-api/api/middleware"
	"github.com/killallgit/fortune-api/api/types"
	"github.com/killallgit/fortune-api/api/version"
	_ "github.com/killallgit/fortune-api/docs/swagger"
	"github.com/killallgit/fortune-api/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, cfg *config.Config, deps *types.Dependencies, rateLimiters *RateLimiters) error {
	// Public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	fortuneRoutes := engine.Group("/")
	if cfg.RateLimiting.Enabled {
		fortuneRoutes.Use(PerClientRateLimit(rateLimiters, cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.Burst))
	}

	// Only the listing is cacheable; /random must stay random.
	perRoute := map[string][]gin.HandlerFunc{}
	if cfg.Cache.Enabled && deps.Cache != nil {
		perRoute["/fortunes"] = []gin.HandlerFunc{
			middleware.CacheMiddleware(middleware.CacheConfig{Cache: deps.Cache, TTL: cfg.Cache.TTL}),
		}
	}

	controller := fortunes.NewController(deps.Fortunes, deps.Logger)
	fortunes.RegisterRoutes(fortuneRoutes, controller, perRoute)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		types.SendNotFound(c, "The requested endpoint was not found: "+c.Request.URL.Path)
	}
}
