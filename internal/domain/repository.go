package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations. Values are
// opaque JSON blobs so memory and Redis backends behave identically.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// NutritionSource is one step of the lookup fallback chain. A source returns
// ErrFoodNotFound when it has no answer for the query; the chain then moves
// on to the next source.
type NutritionSource interface {
	Name() string
	Lookup(ctx context.Context, query string) (*NutritionResult, error)
}

// FDCClient defines the interface for the USDA FoodData Central API.
type FDCClient interface {
	SearchFoods(ctx context.Context, query string, includeSurvey bool) (*FDCSearchResponse, error)
	GetFoodDetails(ctx context.Context, fdcID int64) (*FDCFood, error)
}

// EntryRepository persists log entries. Entries are immutable once inserted;
// the only mutation is deletion.
type EntryRepository interface {
	Insert(ctx context.Context, entry *Entry) (int64, error)
	Delete(ctx context.Context, id int64) error
	ListDay(ctx context.Context, day string) ([]Entry, error)
	ListRange(ctx context.Context, fromDay, toDay string) ([]Entry, error)
}

// GoalRepository persists the daily kcal goal history.
type GoalRepository interface {
	Set(ctx context.Context, goal Goal) error
	Current(ctx context.Context, day string) (*Goal, error)
}
