package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caloriehawk/backend/internal/domain"
	"github.com/caloriehawk/backend/internal/infrastructure/fdc"
)

// DefaultPortionGrams is the portion used when the caller does not specify
// one.
const DefaultPortionGrams = 154.0

// MacroServiceConfig holds configuration for the macro lookup service
type MacroServiceConfig struct {
	CacheTTL time.Duration
}

// MacroService performs the detailed macro lookup against FDC: search, rank
// candidates, then fetch details until one carries usable nutrients.
type MacroService struct {
	client   domain.FDCClient
	cache    domain.CacheRepository
	cacheTTL time.Duration
}

// NewMacroService creates a new macro lookup service.
func NewMacroService(client domain.FDCClient, cache domain.CacheRepository, config MacroServiceConfig) *MacroService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour
	}
	return &MacroService{
		client:   client,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// LookupMacros resolves detailed macro data for a query scaled to the given
// portion. Candidates are ranked by data-type preference and the first one
// whose detail record has any usable nutrient wins; when none does, the top
// candidate is still returned so the caller can report "no usable data"
// through snapshot selection.
func (s *MacroService) LookupMacros(ctx context.Context, query string, grams float64, includeSurvey bool) (*domain.NutritionQueryResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || grams <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	normalized := NormalizeFoodQuery(trimmed)
	cacheKey := s.generateCacheKey(normalized, grams, includeSurvey)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	searchResp, err := s.client.SearchFoods(ctx, normalized, includeSurvey)
	if err != nil {
		return nil, err
	}

	ranked := fdc.RankCandidates(searchResp.Foods)
	if len(ranked) == 0 {
		return nil, domain.ErrFoodNotFound
	}

	var chosen *domain.FDCFood
	for i := range ranked {
		detail, err := s.client.GetFoodDetails(ctx, ranked[i].FdcID)
		if err != nil {
			log.Printf("[MACROS] detail fetch failed for fdcId %d: %v", ranked[i].FdcID, err)
			continue
		}
		if fdc.MergeNutrients(detail).HasData() {
			chosen = detail
			break
		}
	}

	if chosen == nil {
		// No candidate had usable nutrients; fall back to the top-ranked
		// detail so the response still identifies the food.
		detail, err := s.client.GetFoodDetails(ctx, ranked[0].FdcID)
		if err != nil {
			return nil, err
		}
		chosen = detail
	}

	result := fdc.BuildQueryResult(trimmed, chosen, grams)

	if err := s.setInCache(ctx, cacheKey, result); err != nil {
		log.Printf("[MACROS] cache write failed for %q: %v", cacheKey, err)
	}

	return result, nil
}

func (s *MacroService) generateCacheKey(query string, grams float64, includeSurvey bool) string {
	return fmt.Sprintf("macros:%s:%g:%t", normalizeForCacheKey(query), grams, includeSurvey)
}

func (s *MacroService) getFromCache(ctx context.Context, key string) (*domain.NutritionQueryResult, error) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var result domain.NutritionQueryResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &result, nil
}

func (s *MacroService) setInCache(ctx context.Context, key string, result *domain.NutritionQueryResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, raw, s.cacheTTL)
}
