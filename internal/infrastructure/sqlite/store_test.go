package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/caloriehawk/backend/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewStore(db)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("first Migrate() error = %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestStore_InsertAndListDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := &domain.Entry{
		Name:       "Banana",
		Kcal:       105,
		Meal:       domain.MealSnack,
		ConsumedAt: time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC),
		Day:        "2026-08-29",
		Snapshot: &domain.MacroAmounts{
			Kcal:     domain.Float(105),
			ProteinG: domain.Float(1.3),
			CarbsG:   domain.Float(27),
		},
	}

	id, err := store.Insert(ctx, entry)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if id == 0 {
		t.Error("Insert() returned zero id")
	}

	entries, err := store.ListDay(ctx, "2026-08-29")
	if err != nil {
		t.Fatalf("ListDay() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ListDay() returned %d entries, want 1", len(entries))
	}

	got := entries[0]
	if got.ID != id {
		t.Errorf("ID = %d, want %d", got.ID, id)
	}
	if got.Name != "Banana" || got.Kcal != 105 || got.Meal != domain.MealSnack {
		t.Errorf("entry = %+v, want inserted values back", got)
	}
	if !got.ConsumedAt.Equal(entry.ConsumedAt) {
		t.Errorf("ConsumedAt = %v, want %v", got.ConsumedAt, entry.ConsumedAt)
	}
	if got.Snapshot == nil {
		t.Fatal("Snapshot = nil, want stored snapshot")
	}
	if got.Snapshot.Kcal == nil || *got.Snapshot.Kcal != 105 {
		t.Errorf("Snapshot.Kcal = %v, want 105", got.Snapshot.Kcal)
	}
	if got.Snapshot.FatG != nil {
		t.Errorf("Snapshot.FatG = %v, want nil (unknown stays NULL)", *got.Snapshot.FatG)
	}
}

func TestStore_InsertWithoutSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, &domain.Entry{
		Kcal:       500,
		Meal:       domain.MealOther,
		ConsumedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		Day:        "2026-08-29",
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	entries, err := store.ListDay(ctx, "2026-08-29")
	if err != nil {
		t.Fatalf("ListDay() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ListDay() returned %d entries, want 1", len(entries))
	}
	if entries[0].Snapshot != nil {
		t.Errorf("Snapshot = %+v, want nil", entries[0].Snapshot)
	}
}

func TestStore_ListDayOrdersNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	morning := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 8, 29, 19, 0, 0, 0, time.UTC)

	for _, e := range []*domain.Entry{
		{Name: "Oatmeal", Kcal: 150, Meal: domain.MealBreakfast, ConsumedAt: morning, Day: "2026-08-29"},
		{Name: "Pizza", Kcal: 285, Meal: domain.MealDinner, ConsumedAt: evening, Day: "2026-08-29"},
	} {
		if _, err := store.Insert(ctx, e); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	entries, err := store.ListDay(ctx, "2026-08-29")
	if err != nil {
		t.Fatalf("ListDay() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListDay() returned %d entries, want 2", len(entries))
	}
	if entries[0].Name != "Pizza" {
		t.Errorf("first entry = %v, want the newest", entries[0].Name)
	}
}

func TestStore_ListRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	days := []string{"2026-08-27", "2026-08-28", "2026-08-29"}
	for _, day := range days {
		at, _ := time.Parse("2006-01-02", day)
		if _, err := store.Insert(ctx, &domain.Entry{Kcal: 100, Meal: domain.MealOther, ConsumedAt: at, Day: day}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	entries, err := store.ListRange(ctx, "2026-08-28", "2026-08-29")
	if err != nil {
		t.Fatalf("ListRange() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListRange() returned %d entries, want 2", len(entries))
	}
	if entries[0].Day != "2026-08-28" || entries[1].Day != "2026-08-29" {
		t.Errorf("order = %v, %v, want oldest first", entries[0].Day, entries[1].Day)
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, &domain.Entry{
		Kcal:       100,
		Meal:       domain.MealOther,
		ConsumedAt: time.Now().UTC(),
		Day:        "2026-08-29",
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	if err := store.Delete(ctx, id); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("Delete() error = %v, want ErrEntryNotFound", err)
	}

	entries, err := store.ListDay(ctx, "2026-08-29")
	if err != nil {
		t.Fatalf("ListDay() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("ListDay() returned %d entries after delete, want 0", len(entries))
	}
}

func TestStore_Goals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("no goal yet", func(t *testing.T) {
		goal, err := store.Current(ctx, "2026-08-29")
		if err != nil {
			t.Fatalf("Current() error = %v", err)
		}
		if goal != nil {
			t.Errorf("goal = %+v, want nil", goal)
		}
	})

	t.Run("latest effective goal wins", func(t *testing.T) {
		if err := store.Set(ctx, domain.Goal{Kcal: 1800, EffectiveDate: "2026-08-01"}); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := store.Set(ctx, domain.Goal{Kcal: 2000, EffectiveDate: "2026-08-15"}); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		goal, err := store.Current(ctx, "2026-08-29")
		if err != nil {
			t.Fatalf("Current() error = %v", err)
		}
		if goal == nil || goal.Kcal != 2000 {
			t.Errorf("goal = %+v, want kcal 2000", goal)
		}

		goal, err = store.Current(ctx, "2026-08-10")
		if err != nil {
			t.Fatalf("Current() error = %v", err)
		}
		if goal == nil || goal.Kcal != 1800 {
			t.Errorf("goal = %+v, want kcal 1800 before the newer goal", goal)
		}
	})

	t.Run("same effective date upserts", func(t *testing.T) {
		if err := store.Set(ctx, domain.Goal{Kcal: 2200, EffectiveDate: "2026-08-15"}); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		goal, err := store.Current(ctx, "2026-08-29")
		if err != nil {
			t.Fatalf("Current() error = %v", err)
		}
		if goal == nil || goal.Kcal != 2200 {
			t.Errorf("goal = %+v, want upserted kcal 2200", goal)
		}
	})

	t.Run("future goal invisible", func(t *testing.T) {
		if err := store.Set(ctx, domain.Goal{Kcal: 1500, EffectiveDate: "2026-12-01"}); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		goal, err := store.Current(ctx, "2026-08-29")
		if err != nil {
			t.Fatalf("Current() error = %v", err)
		}
		if goal == nil || goal.Kcal != 2200 {
			t.Errorf("goal = %+v, want the currently effective goal", goal)
		}
	})
}
