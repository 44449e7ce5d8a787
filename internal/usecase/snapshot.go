package usecase

import "github.com/caloriehawk/backend/internal/domain"

// PickSnapshot returns the first usable macro record out of a nutrition
// lookup result, or nil when the result is absent or no candidate carries a
// finite field.
//
// Candidates are tried in a fixed priority order: scaled_per_grams, then
// per_100g, then the top-level fields. Scaled-to-portion data best matches
// what the user is about to log, so it wins over generic per-100g numbers,
// which in turn win over the ambiguous top-level fields. The first candidate
// with at least one finite field is taken whole: all four fields are
// extracted, with non-finite values becoming unknown (nil), not zero.
func PickSnapshot(result *domain.NutritionQueryResult) *domain.MacroAmounts {
	if result == nil {
		return nil
	}
	for _, candidate := range snapshotCandidates(result) {
		if candidate == nil {
			continue
		}
		if candidate.HasData() {
			snapshot := candidate.ToMacroAmounts()
			return &snapshot
		}
	}
	return nil
}

func snapshotCandidates(result *domain.NutritionQueryResult) []*domain.MacroFields {
	return []*domain.MacroFields{
		result.ScaledPerGrams,
		result.Per100g,
		&result.MacroFields,
	}
}
