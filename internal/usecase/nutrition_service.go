package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/caloriehawk/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// NutritionServiceConfig holds configuration for the nutrition service
type NutritionServiceConfig struct {
	CacheTTL time.Duration
}

// NutritionService answers simple calories/protein/fat/carbs lookups by
// walking an ordered chain of sources, caching the first usable answer.
type NutritionService struct {
	cache    domain.CacheRepository
	sources  []domain.NutritionSource
	cacheTTL time.Duration
}

// NewNutritionService creates a new nutrition service. Sources are consulted
// in the order given; the first one with data wins.
func NewNutritionService(
	cache domain.CacheRepository,
	sources []domain.NutritionSource,
	config NutritionServiceConfig,
) *NutritionService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}

	return &NutritionService{
		cache:    cache,
		sources:  sources,
		cacheTTL: cacheTTL,
	}
}

// Lookup resolves nutrition data for a food name.
// Flow: normalize query -> check cache -> walk source chain -> cache -> return.
// When every source comes up empty it returns ErrNoNutritionData: the caller
// must treat that as "could not estimate macros", not as zero-calorie food.
func (s *NutritionService) Lookup(ctx context.Context, foodName string) (*domain.NutritionResult, error) {
	trimmed := strings.TrimSpace(foodName)
	if trimmed == "" {
		return nil, domain.ErrInvalidRequest
	}

	query := strings.ToLower(NormalizeFoodQuery(trimmed))
	cacheKey := s.generateCacheKey(query)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		cached.Source = domain.SourceCache
		return cached, nil
	}

	for _, source := range s.sources {
		result, err := source.Lookup(ctx, query)
		if err != nil {
			if !errors.Is(err, domain.ErrFoodNotFound) {
				log.Printf("[NUTRITION] source %s failed for %q: %v", source.Name(), query, err)
			}
			continue
		}
		if result == nil {
			continue
		}

		if err := s.setInCache(ctx, cacheKey, result); err != nil {
			log.Printf("[NUTRITION] cache write failed for %q: %v", cacheKey, err)
		}
		return result, nil
	}

	return nil, domain.ErrNoNutritionData
}

// generateCacheKey creates a normalized cache key from the lookup query.
// Format: "nutrition:{normalized_query}"
func (s *NutritionService) generateCacheKey(query string) string {
	return fmt.Sprintf("nutrition:%s", normalizeForCacheKey(query))
}

// normalizeForCacheKey normalizes a string for use as cache key component.
// Converts to lowercase, removes special characters, and trims whitespace.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// getFromCache retrieves a cached lookup result
func (s *NutritionService) getFromCache(ctx context.Context, key string) (*domain.NutritionResult, error) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var result domain.NutritionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &result, nil
}

// setInCache stores a lookup result in cache
func (s *NutritionService) setInCache(ctx context.Context, key string, result *domain.NutritionResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, raw, s.cacheTTL)
}
