package http

import (
	"github.com/carhaven/backend/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Operational endpoints
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.PerIP > 0 {
		v1.Use(RateLimitMiddleware(NewRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst)))
	}
	v1.Use(VisitorMiddleware(cfg.Server.Environment == "production"))
	{
		cars := v1.Group("/cars")
		{
			cars.GET("", handler.ListCars)
			cars.GET("/facets", handler.GetFacets)
			cars.GET("/:id", handler.GetCar)
		}

		v1.GET("/home", handler.Home)
		v1.POST("/catalog/refresh", handler.RefreshCatalog)

		comparison := v1.Group("/comparison")
		{
			comparison.GET("", handler.GetComparison)
			comparison.DELETE("", handler.ClearComparison)
			comparison.GET("/view", handler.ComparisonView)
			comparison.POST("/items", handler.AddToComparison)
			comparison.DELETE("/items/:id", handler.RemoveFromComparison)
		}
	}

	return router
}
