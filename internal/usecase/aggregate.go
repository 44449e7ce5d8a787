package usecase

import (
	"math"

	"github.com/caloriehawk/backend/internal/domain"
)

// Energy distribution of a daily kcal goal: 50% carbohydrate, 25% protein,
// 25% fat, converted to grams at 4 kcal/g (carbs, protein) and 9 kcal/g (fat).
const (
	carbEnergyShare    = 0.50
	proteinEnergyShare = 0.25
	fatEnergyShare     = 0.25

	kcalPerGramCarb    = 4.0
	kcalPerGramProtein = 4.0
	kcalPerGramFat     = 9.0
)

// SumEntries folds entries into macro totals, respecting the add/subtract
// sign convention: an entry with negative kcal subtracts its snapshot from
// the total. Entries without a snapshot contribute nothing. Absent or
// non-finite snapshot fields count as zero in the running total only; the
// stored snapshot itself is never altered. Order of the input is irrelevant.
func SumEntries(entries []domain.Entry) domain.MacroTotals {
	var totals domain.MacroTotals
	for _, entry := range entries {
		if entry.Snapshot == nil {
			continue
		}
		sign := 1.0
		if entry.Kcal < 0 {
			sign = -1.0
		}
		totals.Kcal += sign * finiteOrZero(entry.Snapshot.Kcal)
		totals.ProteinG += sign * finiteOrZero(entry.Snapshot.ProteinG)
		totals.FatG += sign * finiteOrZero(entry.Snapshot.FatG)
		totals.CarbsG += sign * finiteOrZero(entry.Snapshot.CarbsG)
	}
	return totals
}

// SplitGoalIntoMacroTargets derives per-macro gram targets from a daily kcal
// goal. A zero or negative goal yields all-zero targets; no rounding is
// applied here, display rounding happens in Round1.
func SplitGoalIntoMacroTargets(kcalGoal float64) domain.GoalTargets {
	if kcalGoal <= 0 || math.IsNaN(kcalGoal) || math.IsInf(kcalGoal, 0) {
		return domain.GoalTargets{}
	}
	return domain.GoalTargets{
		CarbsG:   kcalGoal * carbEnergyShare / kcalPerGramCarb,
		ProteinG: kcalGoal * proteinEnergyShare / kcalPerGramProtein,
		FatG:     kcalGoal * fatEnergyShare / kcalPerGramFat,
	}
}

// ComputeDayTotals derives the day view from its entries: the signed kcal sum
// over all entries (Kcal is the one guaranteed field) and the macro sums over
// entries that carry a snapshot.
func ComputeDayTotals(day string, entries []domain.Entry) domain.DayTotals {
	totals := domain.DayTotals{
		Day:     day,
		Macros:  SumEntries(entries),
		Entries: len(entries),
	}
	for _, entry := range entries {
		totals.Kcal += entry.Kcal
	}
	return totals
}

// Round1 rounds an optional value to one decimal place for display,
// collapsing "no data" to a displayable zero. Ties round half away from zero.
func Round1(v *float64) float64 {
	if !domain.IsFinite(v) {
		return 0
	}
	return math.Round(*v*10) / 10
}

func finiteOrZero(v *float64) float64 {
	if !domain.IsFinite(v) {
		return 0
	}
	return *v
}
