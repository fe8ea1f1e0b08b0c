package http

import (
	"github.com/gin-gonic/gin"
	"github.com/medisearch/backend/config"
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
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		medicines := v1.Group("/medicines")
		{
			medicines.GET("", handler.SearchMedicines)
			medicines.GET("/by-ingredient", handler.ListByIngredient)
			medicines.GET("/lookup/exact", handler.LookupExact)
			medicines.GET("/by-id/:id", handler.GetByID)

			// Admin: import from CSV (requires x-api-key)
			medicines.POST("/import", APIKeyMiddleware(cfg.Server.APIKey), handler.StartImport)
		}

		v1.GET("/pincodes/:code", handler.GetPincode)
	}

	return router
}
