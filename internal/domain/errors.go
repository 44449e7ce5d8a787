package domain

import "errors"

var (
	// ErrFoodNotFound is returned when no upstream source knows the food.
	ErrFoodNotFound = errors.New("food not found")

	// ErrNoNutritionData is returned when a lookup result carries no usable
	// macro numbers. Callers must treat it as "could not estimate macros",
	// never as zero-calorie food.
	ErrNoNutritionData = errors.New("no usable nutrition data")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrUpstreamFailure is returned when an upstream nutrition API fails.
	ErrUpstreamFailure = errors.New("upstream nutrition API request failed")

	// ErrRateLimited is returned when rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrEntryNotFound is returned when a log entry does not exist.
	ErrEntryNotFound = errors.New("entry not found")
)
