package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// MacroAmounts is the four-field nutritional record. A nil field means the
// value is unknown; unknown is distinct from zero and must stay that way when
// a snapshot is stored.
type MacroAmounts struct {
	Kcal     *float64 `json:"kcal"`
	ProteinG *float64 `json:"protein_g"`
	FatG     *float64 `json:"fat_g"`
	CarbsG   *float64 `json:"carbs_g"`
}

// IsEmpty reports whether no field carries a value.
func (m MacroAmounts) IsEmpty() bool {
	return m.Kcal == nil && m.ProteinG == nil && m.FatG == nil && m.CarbsG == nil
}

// MacroTotals is an all-present accumulator produced by summing entries.
// Unlike MacroAmounts it never has absent fields.
type MacroTotals struct {
	Kcal     float64 `json:"kcal"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbsG   float64 `json:"carbs_g"`
}

// Entry is one logged consumption or correction event. Kcal is signed:
// positive values are consumption, negative values subtract from the day.
// Kcal is the only field guaranteed present. The snapshot is frozen at save
// time and never updated afterwards; entries are immutable except deletion.
type Entry struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name,omitempty"`
	Kcal       float64       `json:"kcal"`
	Meal       string        `json:"meal"`
	ConsumedAt time.Time     `json:"consumedAt"`
	Day        string        `json:"day"`
	Snapshot   *MacroAmounts `json:"snapshot,omitempty"`
}

// Goal is the stored daily kcal goal. Zero or absent means no goal set.
type Goal struct {
	Kcal          float64 `json:"kcal"`
	EffectiveDate string  `json:"effectiveDate"`
}

// GoalTargets holds the per-macro gram targets derived from a daily kcal
// goal via the fixed 50/25/25 energy distribution.
type GoalTargets struct {
	CarbsG   float64 `json:"carbs_g"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
}

// DayTotals is derived, never stored: the signed kcal sum of all entries for
// a date plus the signed macro sums across entries carrying a snapshot.
type DayTotals struct {
	Day     string      `json:"day"`
	Kcal    float64     `json:"kcal"`
	Macros  MacroTotals `json:"macros"`
	Entries int         `json:"entries"`
}

// Meal buckets. Anything outside the fixed set lands in MealOther.
const (
	MealBreakfast = "Breakfast"
	MealLunch     = "Lunch"
	MealDinner    = "Dinner"
	MealSnack     = "Snack"
	MealOther     = "Other"
)

var mealBuckets = map[string]string{
	"breakfast": MealBreakfast,
	"lunch":     MealLunch,
	"dinner":    MealDinner,
	"snack":     MealSnack,
	"snacks":    MealSnack,
}

// NormalizeMealBucket maps a free-form meal label onto the fixed bucket set,
// falling back to MealOther.
func NormalizeMealBucket(label string) string {
	if bucket, ok := mealBuckets[strings.ToLower(strings.TrimSpace(label))]; ok {
		return bucket
	}
	return MealOther
}

// DayKey formats a timestamp as the calendar-date bucket key owning an entry.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Float is a convenience for building optional macro fields.
func Float(v float64) *float64 { return &v }

// IsFinite reports whether an optional field carries a usable number.
func IsFinite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// FlexFloat is a JSON scalar that tolerates numbers, numeric strings, and
// null. Unparseable or non-finite values decode as absent instead of failing
// the surrounding document; external nutrition payloads mix all three forms.
type FlexFloat struct {
	Value float64
	Valid bool
}

// UnmarshalJSON never returns an error for scalar junk: the field just
// becomes absent.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		f.Value, f.Valid = 0, false
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		f.Value, f.Valid = 0, false
		return nil
	}
	f.Value, f.Valid = v, true
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f.Value, 'f', -1, 64), nil
}

// Ptr converts to the optional-field representation used by MacroAmounts.
func (f FlexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}
