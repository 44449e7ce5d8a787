package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/caloriehawk/backend/internal/domain"
)

// macroLookup is the slice of MacroService the tracking service needs to
// resolve a snapshot at save time.
type macroLookup interface {
	LookupMacros(ctx context.Context, query string, grams float64, includeSurvey bool) (*domain.NutritionQueryResult, error)
}

// TrackingService owns the daily log: entries, day totals, history views and
// the calorie goal.
type TrackingService struct {
	entries domain.EntryRepository
	goals   domain.GoalRepository
	lookup  macroLookup
}

// NewTrackingService creates a new tracking service. The lookup dependency
// may be nil; entries then always save without a resolved snapshot.
func NewTrackingService(entries domain.EntryRepository, goals domain.GoalRepository, lookup macroLookup) *TrackingService {
	return &TrackingService{
		entries: entries,
		goals:   goals,
		lookup:  lookup,
	}
}

// CreateEntryInput carries everything needed to log one consumption or
// correction event. Kcal is the only required field. When Snapshot is unset
// and LookupQuery is given, macros are resolved and frozen onto the entry.
type CreateEntryInput struct {
	Name        string
	Kcal        float64
	Meal        string
	ConsumedAt  time.Time
	Snapshot    *domain.MacroAmounts
	LookupQuery string
	LookupGrams float64
}

// CreateEntry logs an entry. The snapshot captured here is frozen: later
// changes in external nutrition data never touch saved entries. A failed
// lookup degrades to an entry without snapshot instead of blocking the log.
func (s *TrackingService) CreateEntry(ctx context.Context, in CreateEntryInput) (*domain.Entry, error) {
	if math.IsNaN(in.Kcal) || math.IsInf(in.Kcal, 0) {
		return nil, domain.ErrInvalidRequest
	}
	if in.ConsumedAt.IsZero() {
		in.ConsumedAt = time.Now()
	}

	snapshot := sanitizeSnapshot(in.Snapshot)
	if snapshot == nil && in.LookupQuery != "" && s.lookup != nil {
		grams := in.LookupGrams
		if grams <= 0 {
			grams = DefaultPortionGrams
		}
		result, err := s.lookup.LookupMacros(ctx, in.LookupQuery, grams, false)
		if err != nil {
			log.Printf("[TRACKING] snapshot lookup failed for %q: %v", in.LookupQuery, err)
		} else {
			snapshot = PickSnapshot(result)
		}
	}

	entry := &domain.Entry{
		Name:       in.Name,
		Kcal:       in.Kcal,
		Meal:       domain.NormalizeMealBucket(in.Meal),
		ConsumedAt: in.ConsumedAt,
		Day:        domain.DayKey(in.ConsumedAt),
		Snapshot:   snapshot,
	}

	id, err := s.entries.Insert(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// DeleteEntry removes an entry. Deletion is the only mutation entries allow.
func (s *TrackingService) DeleteEntry(ctx context.Context, id int64) error {
	return s.entries.Delete(ctx, id)
}

// ListDay returns the entries of one calendar day.
func (s *TrackingService) ListDay(ctx context.Context, day string) ([]domain.Entry, error) {
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return nil, domain.ErrInvalidRequest
	}
	return s.entries.ListDay(ctx, day)
}

// DaySummary is the day view: derived totals plus goal progress.
type DaySummary struct {
	Totals        domain.DayTotals   `json:"totals"`
	HasGoal       bool               `json:"hasGoal"`
	GoalKcal      float64            `json:"goalKcal,omitempty"`
	Targets       domain.GoalTargets `json:"targets"`
	RemainingKcal float64            `json:"remainingKcal,omitempty"`
}

// Summarize computes the day summary for a date.
func (s *TrackingService) Summarize(ctx context.Context, day string) (*DaySummary, error) {
	entries, err := s.ListDay(ctx, day)
	if err != nil {
		return nil, err
	}

	summary := &DaySummary{Totals: ComputeDayTotals(day, entries)}

	goal, err := s.goals.Current(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("load goal: %w", err)
	}
	if goal != nil && goal.Kcal > 0 {
		summary.HasGoal = true
		summary.GoalKcal = goal.Kcal
		summary.Targets = SplitGoalIntoMacroTargets(goal.Kcal)
		summary.RemainingKcal = goal.Kcal - summary.Totals.Kcal
	}

	return summary, nil
}

// History periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// HistoryBucket is one aggregated slice of the history view.
type HistoryBucket struct {
	Bucket  string             `json:"bucket"`
	Kcal    float64            `json:"kcal"`
	Macros  domain.MacroTotals `json:"macros"`
	Entries int                `json:"entries"`
}

// History aggregates the signed kcal and macro sums over a date range,
// grouped by calendar day, ISO week, month, or year.
func (s *TrackingService) History(ctx context.Context, period, fromDay, toDay string) ([]HistoryBucket, error) {
	keyFor, err := bucketKeyFunc(period)
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01-02", fromDay); err != nil {
		return nil, domain.ErrInvalidRequest
	}
	if _, err := time.Parse("2006-01-02", toDay); err != nil {
		return nil, domain.ErrInvalidRequest
	}

	entries, err := s.entries.ListRange(ctx, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	grouped := make(map[string][]domain.Entry)
	for _, entry := range entries {
		day, err := time.Parse("2006-01-02", entry.Day)
		if err != nil {
			continue
		}
		key := keyFor(day)
		grouped[key] = append(grouped[key], entry)
	}

	buckets := make([]HistoryBucket, 0, len(grouped))
	for key, group := range grouped {
		bucket := HistoryBucket{
			Bucket:  key,
			Macros:  SumEntries(group),
			Entries: len(group),
		}
		for _, entry := range group {
			bucket.Kcal += entry.Kcal
		}
		buckets = append(buckets, bucket)
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Bucket < buckets[j].Bucket })
	return buckets, nil
}

func bucketKeyFunc(period string) (func(time.Time) string, error) {
	switch period {
	case PeriodDaily:
		return func(t time.Time) string { return t.Format("2006-01-02") }, nil
	case PeriodWeekly:
		return func(t time.Time) string {
			year, week := t.ISOWeek()
			return fmt.Sprintf("%04d-W%02d", year, week)
		}, nil
	case PeriodMonthly:
		return func(t time.Time) string { return t.Format("2006-01") }, nil
	case PeriodYearly:
		return func(t time.Time) string { return t.Format("2006") }, nil
	default:
		return nil, domain.ErrInvalidRequest
	}
}

// SetGoal stores the daily kcal goal effective from the given date (today
// when empty). A zero goal clears the targets.
func (s *TrackingService) SetGoal(ctx context.Context, kcal float64, effectiveDate string) (*domain.Goal, error) {
	if kcal < 0 || math.IsNaN(kcal) || math.IsInf(kcal, 0) {
		return nil, domain.ErrInvalidRequest
	}
	if effectiveDate == "" {
		effectiveDate = domain.DayKey(time.Now())
	}
	if _, err := time.Parse("2006-01-02", effectiveDate); err != nil {
		return nil, domain.ErrInvalidRequest
	}

	goal := domain.Goal{Kcal: kcal, EffectiveDate: effectiveDate}
	if err := s.goals.Set(ctx, goal); err != nil {
		return nil, fmt.Errorf("set goal: %w", err)
	}
	return &goal, nil
}

// GoalStatus is the current goal with its derived macro targets.
type GoalStatus struct {
	HasGoal bool               `json:"hasGoal"`
	Kcal    float64            `json:"kcal,omitempty"`
	Targets domain.GoalTargets `json:"targets"`
}

// CurrentGoal returns the goal effective on a date plus its macro targets.
// An unset or zero goal yields zero targets, never a division artifact.
func (s *TrackingService) CurrentGoal(ctx context.Context, day string) (*GoalStatus, error) {
	if day == "" {
		day = domain.DayKey(time.Now())
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return nil, domain.ErrInvalidRequest
	}

	goal, err := s.goals.Current(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("load goal: %w", err)
	}
	if goal == nil || goal.Kcal <= 0 {
		return &GoalStatus{}, nil
	}
	return &GoalStatus{
		HasGoal: true,
		Kcal:    goal.Kcal,
		Targets: SplitGoalIntoMacroTargets(goal.Kcal),
	}, nil
}

// sanitizeSnapshot maps non-finite snapshot fields to unknown before the
// snapshot is stored. Unknown stays unknown; it never becomes zero here.
func sanitizeSnapshot(snapshot *domain.MacroAmounts) *domain.MacroAmounts {
	if snapshot == nil {
		return nil
	}
	clean := domain.MacroAmounts{
		Kcal:     finitePtr(snapshot.Kcal),
		ProteinG: finitePtr(snapshot.ProteinG),
		FatG:     finitePtr(snapshot.FatG),
		CarbsG:   finitePtr(snapshot.CarbsG),
	}
	if clean.IsEmpty() {
		return nil
	}
	return &clean
}

func finitePtr(v *float64) *float64 {
	if !domain.IsFinite(v) {
		return nil
	}
	value := *v
	return &value
}
