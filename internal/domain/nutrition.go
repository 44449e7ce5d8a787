package domain

// MacroFields is the wire shape of one candidate macro record inside a
// nutrition lookup result. Every field may be a number, a numeric string, or
// null; FlexFloat absorbs all three.
type MacroFields struct {
	Kcal     FlexFloat `json:"kcal"`
	ProteinG FlexFloat `json:"protein_g"`
	FatG     FlexFloat `json:"fat_g"`
	CarbsG   FlexFloat `json:"carbs_g"`
}

// HasData reports whether at least one field carries a finite number.
func (m MacroFields) HasData() bool {
	return m.Kcal.Valid || m.ProteinG.Valid || m.FatG.Valid || m.CarbsG.Valid
}

// ToMacroAmounts extracts all four fields, mapping absent values to unknown
// (nil), never to zero.
func (m MacroFields) ToMacroAmounts() MacroAmounts {
	return MacroAmounts{
		Kcal:     m.Kcal.Ptr(),
		ProteinG: m.ProteinG.Ptr(),
		FatG:     m.FatG.Ptr(),
		CarbsG:   m.CarbsG.Ptr(),
	}
}

// NutritionQueryResult is the detailed macro lookup payload. The usable
// numbers may live in any of three places: a sub-record scaled to the
// requested grams, a per-100g sub-record, or the top-level fields.
type NutritionQueryResult struct {
	Query           string       `json:"query,omitempty"`
	FdcID           int64        `json:"fdcId,omitempty"`
	Description     string       `json:"description,omitempty"`
	DataType        string       `json:"dataType,omitempty"`
	BrandOwner      string       `json:"brandOwner,omitempty"`
	ScaledPerGrams  *MacroFields `json:"scaled_per_grams,omitempty"`
	Per100g         *MacroFields `json:"per_100g,omitempty"`
	ServingSize     *float64     `json:"servingSize,omitempty"`
	ServingSizeUnit string       `json:"servingSizeUnit,omitempty"`
	MacroFields
}

// Nutrition lookup source labels carried on NutritionResult.
const (
	SourceCalorieNinjas = "calorieninjas"
	SourceFDC           = "fdc"
	SourceFallback      = "fallback"
	SourceCache         = "cache"
	SourceNone          = "none"
)

// NutritionResult is the simple calories/protein/fat/carbs answer produced by
// the fallback-chain lookup, tagged with the source that supplied it.
type NutritionResult struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Fat      *float64 `json:"fat"`
	Carbs    *float64 `json:"carbs"`
	Source   string   `json:"source"`
}

// FDC nutrient identifiers for the key macronutrients. The API reports both
// numeric IDs and legacy string numbers depending on endpoint and data type.
const (
	FDCNutrientIDEnergy       = 1008
	FDCNutrientIDProtein      = 1003
	FDCNutrientIDTotalFat     = 1004
	FDCNutrientIDCarbohydrate = 1005

	FDCNutrientNumberEnergy       = "208"
	FDCNutrientNumberProtein      = "203"
	FDCNutrientNumberTotalFat     = "204"
	FDCNutrientNumberCarbohydrate = "205"
)

// FDCFood is a food record from the FoodData Central API, covering both the
// search-result and detail shapes.
type FDCFood struct {
	FdcID           int64          `json:"fdcId"`
	Description     string         `json:"description"`
	DataType        string         `json:"dataType"`
	BrandOwner      string         `json:"brandOwner,omitempty"`
	Score           float64        `json:"score,omitempty"`
	ServingSize     FlexFloat      `json:"servingSize"`
	ServingSizeUnit string         `json:"servingSizeUnit,omitempty"`
	FoodNutrients   []FDCNutrient  `json:"foodNutrients"`
	LabelNutrients  *FDCLabelBlock `json:"labelNutrients,omitempty"`
}

// FDCNutrient covers the two nutrient encodings FDC uses: search results
// flatten the nutrient metadata, detail responses nest it under "nutrient"
// with the value in "amount".
type FDCNutrient struct {
	NutrientID     int64           `json:"nutrientId"`
	NutrientNumber string          `json:"nutrientNumber"`
	Value          FlexFloat       `json:"value"`
	Amount         FlexFloat       `json:"amount"`
	Nutrient       *FDCNutrientRef `json:"nutrient,omitempty"`
}

// FDCNutrientRef is the nested nutrient metadata in detail responses.
type FDCNutrientRef struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
	Name   string `json:"name"`
}

// FDCLabelBlock is the labelNutrients object on Branded detail records.
type FDCLabelBlock struct {
	Calories      *FDCLabelValue `json:"calories,omitempty"`
	Protein       *FDCLabelValue `json:"protein,omitempty"`
	Fat           *FDCLabelValue `json:"fat,omitempty"`
	Carbohydrates *FDCLabelValue `json:"carbohydrates,omitempty"`
}

// FDCLabelValue wraps a single label nutrient value.
type FDCLabelValue struct {
	Value FlexFloat `json:"value"`
}

// FDCSearchResponse is the response from the FDC search endpoint.
type FDCSearchResponse struct {
	Foods     []FDCFood `json:"foods"`
	TotalHits int       `json:"totalHits"`
}
