package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/caloriehawk/backend/config"
	httpDelivery "github.com/caloriehawk/backend/internal/delivery/http"
	"github.com/caloriehawk/backend/internal/domain"
	"github.com/caloriehawk/backend/internal/infrastructure/cache"
	"github.com/caloriehawk/backend/internal/infrastructure/calorieninjas"
	"github.com/caloriehawk/backend/internal/infrastructure/fdc"
	"github.com/caloriehawk/backend/internal/infrastructure/sqlite"
	"github.com/caloriehawk/backend/internal/infrastructure/staticfood"
	"github.com/caloriehawk/backend/internal/usecase"
)

func main() {
	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CalorieHawk Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	// Initialize cache backend
	var cacheRepo domain.CacheRepository
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		cacheRepo = redisCache
	} else {
		cacheRepo = cache.NewMemoryCache()
	}
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Open the tracking database
	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to open tracking database: %v", err)
	}
	defer db.Close()
	if err := sqlite.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate tracking database: %v", err)
	}
	store := sqlite.NewStore(db)
	log.Printf("Tracking database: %s", cfg.Storage.Path)

	// FDC client
	fdcClient := fdc.NewClient(cfg.FDC.APIKey, cfg.FDC.BaseURL)
	if cfg.Server.Environment == "development" {
		fdcClient.SetDebug(true)
		log.Printf("FDC client debug mode enabled")
	}
	if cfg.FDC.APIKey != "" {
		log.Printf("FDC API configured: %s", cfg.FDC.BaseURL)
	} else {
		log.Printf("WARNING: FDC API key not configured - FDC lookups will fail")
	}

	// Lookup fallback chain: CalorieNinjas -> FDC -> static table
	var sources []domain.NutritionSource
	if cfg.CalorieNinjas.APIKey != "" {
		sources = append(sources, calorieninjas.NewClient(cfg.CalorieNinjas.APIKey, cfg.CalorieNinjas.BaseURL))
		log.Printf("CalorieNinjas source enabled")
	}
	if cfg.FDC.APIKey != "" {
		sources = append(sources, fdc.NewSource(fdcClient))
	}
	sources = append(sources, staticfood.NewSource())
	log.Printf("Nutrition sources: %d", len(sources))

	// Initialize usecase layer
	nutritionService := usecase.NewNutritionService(cacheRepo, sources, usecase.NutritionServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	})
	macroService := usecase.NewMacroService(fdcClient, cacheRepo, usecase.MacroServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	})
	trackingService := usecase.NewTrackingService(store, store, macroService)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(nutritionService, macroService, trackingService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
