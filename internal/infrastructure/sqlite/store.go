package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/caloriehawk/backend/internal/domain"
)

// Store implements domain.EntryRepository and domain.GoalRepository on a
// SQLite database. Optional snapshot fields map to nullable columns so
// "unknown" round-trips as NULL, never as zero.
type Store struct {
	db *sql.DB
}

// NewStore wraps an opened database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert stores a new entry and returns its id.
func (s *Store) Insert(ctx context.Context, entry *domain.Entry) (int64, error) {
	var snapKcal, snapProtein, snapFat, snapCarbs any
	if entry.Snapshot != nil {
		snapKcal = nullable(entry.Snapshot.Kcal)
		snapProtein = nullable(entry.Snapshot.ProteinG)
		snapFat = nullable(entry.Snapshot.FatG)
		snapCarbs = nullable(entry.Snapshot.CarbsG)
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO entries(name, kcal, meal, consumed_at, day, snap_kcal, snap_protein_g, snap_fat_g, snap_carbs_g)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`, entry.Name, entry.Kcal, entry.Meal, entry.ConsumedAt.Format(time.RFC3339), entry.Day,
		snapKcal, snapProtein, snapFat, snapCarbs)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve inserted entry id: %w", err)
	}
	return id, nil
}

// Delete removes an entry by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// ListDay returns the entries of one calendar day, newest first.
func (s *Store) ListDay(ctx context.Context, day string) ([]domain.Entry, error) {
	return s.list(ctx, `
SELECT id, name, kcal, meal, consumed_at, day, snap_kcal, snap_protein_g, snap_fat_g, snap_carbs_g
FROM entries
WHERE day = ?
ORDER BY consumed_at DESC, id DESC
`, day)
}

// ListRange returns entries with day in [fromDay, toDay], oldest first.
func (s *Store) ListRange(ctx context.Context, fromDay, toDay string) ([]domain.Entry, error) {
	return s.list(ctx, `
SELECT id, name, kcal, meal, consumed_at, day, snap_kcal, snap_protein_g, snap_fat_g, snap_carbs_g
FROM entries
WHERE day >= ? AND day <= ?
ORDER BY consumed_at ASC, id ASC
`, fromDay, toDay)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0)
	for rows.Next() {
		var (
			entry      domain.Entry
			consumedAt string
			snapKcal   sql.NullFloat64
			snapProt   sql.NullFloat64
			snapFat    sql.NullFloat64
			snapCarbs  sql.NullFloat64
		)
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Kcal, &entry.Meal, &consumedAt, &entry.Day,
			&snapKcal, &snapProt, &snapFat, &snapCarbs); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, consumedAt); err == nil {
			entry.ConsumedAt = t
		}
		entry.Snapshot = snapshotFromColumns(snapKcal, snapProt, snapFat, snapCarbs)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Set upserts the goal for an effective date.
func (s *Store) Set(ctx context.Context, goal domain.Goal) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO goals(kcal, effective_date)
VALUES(?, ?)
ON CONFLICT(effective_date) DO UPDATE SET
  kcal=excluded.kcal
`, goal.Kcal, goal.EffectiveDate)
	if err != nil {
		return fmt.Errorf("set goal: %w", err)
	}
	return nil
}

// Current returns the goal effective on the given day, or nil when no goal
// has been set yet.
func (s *Store) Current(ctx context.Context, day string) (*domain.Goal, error) {
	var goal domain.Goal
	err := s.db.QueryRowContext(ctx, `
SELECT kcal, effective_date
FROM goals
WHERE effective_date <= ?
ORDER BY effective_date DESC
LIMIT 1
`, day).Scan(&goal.Kcal, &goal.EffectiveDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("current goal for %s: %w", day, err)
	}
	return &goal, nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func snapshotFromColumns(kcal, protein, fat, carbs sql.NullFloat64) *domain.MacroAmounts {
	if !kcal.Valid && !protein.Valid && !fat.Valid && !carbs.Valid {
		return nil
	}
	snapshot := &domain.MacroAmounts{}
	if kcal.Valid {
		snapshot.Kcal = domain.Float(kcal.Float64)
	}
	if protein.Valid {
		snapshot.ProteinG = domain.Float(protein.Float64)
	}
	if fat.Valid {
		snapshot.FatG = domain.Float(fat.Float64)
	}
	if carbs.Valid {
		snapshot.CarbsG = domain.Float(carbs.Float64)
	}
	return snapshot
}
