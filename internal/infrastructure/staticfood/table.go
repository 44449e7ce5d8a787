package staticfood

import (
	"context"
	"strings"

	"github.com/caloriehawk/backend/internal/domain"
)

// entry is one row of the built-in table: per-typical-serving macros for
// common foods, used when every networked source comes up empty.
type entry struct {
	calories float64
	protein  float64
	fat      float64
	carbs    float64
}

var table = map[string]entry{
	"banana":  {calories: 105, protein: 1, fat: 0, carbs: 27},
	"apple":   {calories: 95, protein: 0, fat: 0, carbs: 25},
	"orange":  {calories: 62, protein: 1, fat: 0, carbs: 15},
	"egg":     {calories: 78, protein: 6, fat: 5, carbs: 1},
	"rice":    {calories: 206, protein: 4, fat: 0, carbs: 45},
	"bread":   {calories: 80, protein: 3, fat: 1, carbs: 15},
	"yogurt":  {calories: 149, protein: 8, fat: 8, carbs: 11},
	"chicken": {calories: 231, protein: 43, fat: 5, carbs: 0},
	"beef":    {calories: 250, protein: 26, fat: 15, carbs: 0},
	"milk":    {calories: 122, protein: 8, fat: 5, carbs: 12},
	"pizza":   {calories: 285, protein: 12, fat: 10, carbs: 36},
}

// Source is the last step of the lookup fallback chain: a fixed in-memory
// table keyed by exact lowercase food name.
type Source struct{}

// NewSource creates the static table source.
func NewSource() *Source { return &Source{} }

// Name implements domain.NutritionSource.
func (s *Source) Name() string { return domain.SourceFallback }

// Lookup implements domain.NutritionSource.
func (s *Source) Lookup(_ context.Context, query string) (*domain.NutritionResult, error) {
	row, ok := table[strings.ToLower(strings.TrimSpace(query))]
	if !ok {
		return nil, domain.ErrFoodNotFound
	}
	return &domain.NutritionResult{
		Calories: domain.Float(row.calories),
		Protein:  domain.Float(row.protein),
		Fat:      domain.Float(row.fat),
		Carbs:    domain.Float(row.carbs),
		Source:   domain.SourceFallback,
	}, nil
}
