package fdc

import (
	"context"

	"github.com/caloriehawk/backend/internal/domain"
)

// Source adapts the FDC client to the lookup fallback chain: it takes the
// top search hit and reads macros straight off the flattened search-result
// nutrients, without the detail round trip the full macro lookup performs.
type Source struct {
	client domain.FDCClient
}

// NewSource creates a fallback-chain source backed by an FDC client.
func NewSource(client domain.FDCClient) *Source {
	return &Source{client: client}
}

// Name implements domain.NutritionSource.
func (s *Source) Name() string { return domain.SourceFDC }

// Lookup implements domain.NutritionSource.
func (s *Source) Lookup(ctx context.Context, query string) (*domain.NutritionResult, error) {
	resp, err := s.client.SearchFoods(ctx, query, false)
	if err != nil {
		return nil, err
	}
	if len(resp.Foods) == 0 {
		return nil, domain.ErrFoodNotFound
	}

	fields := extractFoodNutrients(resp.Foods[0].FoodNutrients)
	if !fields.HasData() {
		return nil, domain.ErrFoodNotFound
	}

	return &domain.NutritionResult{
		Calories: fields.Kcal.Ptr(),
		Protein:  fields.ProteinG.Ptr(),
		Fat:      fields.FatG.Ptr(),
		Carbs:    fields.CarbsG.Ptr(),
		Source:   domain.SourceFDC,
	}, nil
}
