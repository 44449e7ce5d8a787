package http

import (
	"github.com/gin-gonic/gin"

	"github.com/caloriehawk/backend/config"
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
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/macros", handler.GetMacros)
		v1.GET("/nutrition/:food", handler.GetNutrition)

		entries := v1.Group("/entries")
		{
			entries.POST("", handler.CreateEntry)
			entries.GET("", handler.ListEntries)
			entries.GET("/summary", handler.DaySummary)
			entries.DELETE("/:id", handler.DeleteEntry)
		}

		v1.GET("/history", handler.History)

		v1.GET("/goal", handler.GetGoal)
		v1.PUT("/goal", handler.SetGoal)
	}

	return router
}
