package usecase

import (
	"encoding/json"
	"testing"

	"github.com/caloriehawk/backend/internal/domain"
)

func fields(kcal, protein, fat, carbs float64) *domain.MacroFields {
	return &domain.MacroFields{
		Kcal:     domain.FlexFloat{Value: kcal, Valid: true},
		ProteinG: domain.FlexFloat{Value: protein, Valid: true},
		FatG:     domain.FlexFloat{Value: fat, Valid: true},
		CarbsG:   domain.FlexFloat{Value: carbs, Valid: true},
	}
}

func TestPickSnapshot(t *testing.T) {
	t.Run("nil result yields nil", func(t *testing.T) {
		if got := PickSnapshot(nil); got != nil {
			t.Errorf("snapshot = %+v, want nil", got)
		}
	})

	t.Run("result without data yields nil", func(t *testing.T) {
		if got := PickSnapshot(&domain.NutritionQueryResult{Query: "mystery"}); got != nil {
			t.Errorf("snapshot = %+v, want nil", got)
		}
	})

	t.Run("scaled record wins over per-100g and top-level", func(t *testing.T) {
		result := &domain.NutritionQueryResult{
			ScaledPerGrams: fields(161, 2, 0.6, 41.5),
			Per100g:        fields(105, 1.3, 0.4, 27),
			MacroFields:    *fields(105, 1.3, 0.4, 27),
		}
		got := PickSnapshot(result)
		if got == nil {
			t.Fatal("expected a snapshot")
		}
		if *got.Kcal != 161 {
			t.Errorf("Kcal = %v, want 161 from scaled record", *got.Kcal)
		}
	})

	t.Run("falls to per-100g when scaled record is empty", func(t *testing.T) {
		result := &domain.NutritionQueryResult{
			ScaledPerGrams: &domain.MacroFields{},
			Per100g:        fields(105, 1.3, 0.4, 27),
		}
		got := PickSnapshot(result)
		if got == nil {
			t.Fatal("expected a snapshot")
		}
		if *got.Kcal != 105 {
			t.Errorf("Kcal = %v, want 105 from per-100g record", *got.Kcal)
		}
	})

	t.Run("falls to top-level fields last", func(t *testing.T) {
		result := &domain.NutritionQueryResult{
			MacroFields: *fields(95, 0.5, 0.3, 25),
		}
		got := PickSnapshot(result)
		if got == nil {
			t.Fatal("expected a snapshot")
		}
		if *got.CarbsG != 25 {
			t.Errorf("CarbsG = %v, want 25", *got.CarbsG)
		}
	})

	t.Run("partial record is taken whole with absent fields unknown", func(t *testing.T) {
		result := &domain.NutritionQueryResult{
			Per100g: &domain.MacroFields{
				Kcal: domain.FlexFloat{Value: 62, Valid: true},
			},
		}
		got := PickSnapshot(result)
		if got == nil {
			t.Fatal("expected a snapshot")
		}
		if got.Kcal == nil || *got.Kcal != 62 {
			t.Errorf("Kcal = %v, want 62", got.Kcal)
		}
		if got.ProteinG != nil || got.FatG != nil || got.CarbsG != nil {
			t.Errorf("snapshot = %+v, want absent fields kept unknown, not zero", got)
		}
	})

	t.Run("string-encoded payload fields still decode and pick", func(t *testing.T) {
		payload := []byte(`{
			"query": "banana",
			"per_100g": {"kcal": "89", "protein_g": "1.1", "fat_g": null, "carbs_g": "oops"}
		}`)
		var result domain.NutritionQueryResult
		if err := json.Unmarshal(payload, &result); err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		got := PickSnapshot(&result)
		if got == nil {
			t.Fatal("expected a snapshot")
		}
		if got.Kcal == nil || *got.Kcal != 89 {
			t.Errorf("Kcal = %v, want 89 coerced from string", got.Kcal)
		}
		if got.FatG != nil {
			t.Errorf("FatG = %v, want nil for null", *got.FatG)
		}
		if got.CarbsG != nil {
			t.Errorf("CarbsG = %v, want nil for junk string", *got.CarbsG)
		}
	})
}
