package fdc

import (
	"math"
	"sort"

	"github.com/caloriehawk/backend/internal/domain"
)

// preferredDataTypes is the FDC data-type fallback order. Foundation and SR
// Legacy records are per-100g lab data; Branded records carry label data per
// serving. Survey data ranks last and only when explicitly requested.
var preferredDataTypes = []string{"Foundation", "SR Legacy", "Branded"}

const dataTypeSurvey = "Survey (FNDDS)"

// RankCandidates orders search results by data-type preference, then by
// nutrient count (more data first), then by search score.
func RankCandidates(foods []domain.FDCFood) []domain.FDCFood {
	ranked := make([]domain.FDCFood, len(foods))
	copy(ranked, foods)

	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := dataTypeRank(ranked[i].DataType), dataTypeRank(ranked[j].DataType)
		if ri != rj {
			return ri < rj
		}
		ni, nj := len(ranked[i].FoodNutrients), len(ranked[j].FoodNutrients)
		if ni != nj {
			return ni > nj
		}
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

func dataTypeRank(dataType string) int {
	for i, dt := range preferredDataTypes {
		if dt == dataType {
			return i
		}
	}
	if dataType == dataTypeSurvey {
		return len(preferredDataTypes)
	}
	return len(preferredDataTypes) + 1
}

// MergeNutrients extracts kcal/protein/fat/carbs from a food record, merging
// the label-nutrient block with the foodNutrients list. Label values win,
// then values keyed by nutrient ID, then by legacy nutrient number. When kcal
// is still missing but a macro is present, it is approximated from the
// nutritional energy densities: 4*protein + 4*carbs + 9*fat.
func MergeNutrients(food *domain.FDCFood) domain.MacroFields {
	merged := extractLabelNutrients(food.LabelNutrients)

	fromList := extractFoodNutrients(food.FoodNutrients)
	if !merged.Kcal.Valid {
		merged.Kcal = fromList.Kcal
	}
	if !merged.ProteinG.Valid {
		merged.ProteinG = fromList.ProteinG
	}
	if !merged.FatG.Valid {
		merged.FatG = fromList.FatG
	}
	if !merged.CarbsG.Valid {
		merged.CarbsG = fromList.CarbsG
	}

	if !merged.Kcal.Valid && (merged.ProteinG.Valid || merged.FatG.Valid || merged.CarbsG.Valid) {
		approx := 4*merged.ProteinG.Value + 4*merged.CarbsG.Value + 9*merged.FatG.Value
		merged.Kcal = domain.FlexFloat{Value: round3(approx), Valid: true}
	}

	return merged
}

func extractLabelNutrients(label *domain.FDCLabelBlock) domain.MacroFields {
	var fields domain.MacroFields
	if label == nil {
		return fields
	}
	if label.Calories != nil {
		fields.Kcal = label.Calories.Value
	}
	if label.Protein != nil {
		fields.ProteinG = label.Protein.Value
	}
	if label.Fat != nil {
		fields.FatG = label.Fat.Value
	}
	if label.Carbohydrates != nil {
		fields.CarbsG = label.Carbohydrates.Value
	}
	return fields
}

func extractFoodNutrients(nutrients []domain.FDCNutrient) domain.MacroFields {
	byID := make(map[int64]domain.FlexFloat)
	byNumber := make(map[string]domain.FlexFloat)

	for _, n := range nutrients {
		value := n.Amount
		if !value.Valid {
			value = n.Value
		}
		if !value.Valid {
			continue
		}

		id, number := n.NutrientID, n.NutrientNumber
		if n.Nutrient != nil {
			if n.Nutrient.ID != 0 {
				id = n.Nutrient.ID
			}
			if n.Nutrient.Number != "" {
				number = n.Nutrient.Number
			}
		}

		if id != 0 {
			byID[id] = value
		}
		if number != "" {
			byNumber[number] = value
		}
	}

	pick := func(id int64, number string) domain.FlexFloat {
		if v, ok := byID[id]; ok {
			return v
		}
		return byNumber[number]
	}

	return domain.MacroFields{
		Kcal:     pick(domain.FDCNutrientIDEnergy, domain.FDCNutrientNumberEnergy),
		ProteinG: pick(domain.FDCNutrientIDProtein, domain.FDCNutrientNumberProtein),
		FatG:     pick(domain.FDCNutrientIDTotalFat, domain.FDCNutrientNumberTotalFat),
		CarbsG:   pick(domain.FDCNutrientIDCarbohydrate, domain.FDCNutrientNumberCarbohydrate),
	}
}

// GramsBasis guesses the gram amount the record's nutrient values describe.
// Branded records report per serving, Foundation and SR Legacy are per 100g.
func GramsBasis(food *domain.FDCFood) *float64 {
	serving := food.ServingSize.Ptr()
	switch food.DataType {
	case "Branded":
		return serving
	case "Foundation", "SR Legacy":
		return domain.Float(100)
	default:
		return serving
	}
}

// ScaleTo rescales nutrient fields from their grams basis to the given gram
// amount. An unknown or non-positive basis yields all-unknown fields rather
// than a bogus scale factor.
func ScaleTo(fields domain.MacroFields, grams float64, basis *float64) domain.MacroFields {
	if basis == nil || *basis <= 0 || grams <= 0 {
		return domain.MacroFields{}
	}
	factor := grams / *basis
	return domain.MacroFields{
		Kcal:     scaleField(fields.Kcal, factor),
		ProteinG: scaleField(fields.ProteinG, factor),
		FatG:     scaleField(fields.FatG, factor),
		CarbsG:   scaleField(fields.CarbsG, factor),
	}
}

func scaleField(f domain.FlexFloat, factor float64) domain.FlexFloat {
	if !f.Valid {
		return domain.FlexFloat{}
	}
	return domain.FlexFloat{Value: round3(f.Value * factor), Valid: true}
}

// BuildQueryResult assembles the detailed lookup payload for a chosen food:
// merged top-level nutrients plus per-100g and scaled-to-portion sub-records.
func BuildQueryResult(query string, food *domain.FDCFood, grams float64) *domain.NutritionQueryResult {
	merged := MergeNutrients(food)
	basis := GramsBasis(food)

	per100 := ScaleTo(merged, 100, basis)
	scaled := ScaleTo(merged, grams, basis)

	return &domain.NutritionQueryResult{
		Query:           query,
		FdcID:           food.FdcID,
		Description:     food.Description,
		DataType:        food.DataType,
		BrandOwner:      food.BrandOwner,
		ScaledPerGrams:  &scaled,
		Per100g:         &per100,
		ServingSize:     food.ServingSize.Ptr(),
		ServingSizeUnit: food.ServingSizeUnit,
		MacroFields:     merged,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
