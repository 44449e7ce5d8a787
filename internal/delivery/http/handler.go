package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/caloriehawk/backend/internal/domain"
	"github.com/caloriehawk/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	nutrition *usecase.NutritionService
	macros    *usecase.MacroService
	tracking  *usecase.TrackingService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	nutrition *usecase.NutritionService,
	macros *usecase.MacroService,
	tracking *usecase.TrackingService,
) *Handler {
	return &Handler{
		nutrition: nutrition,
		macros:    macros,
		tracking:  tracking,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "caloriehawk-backend",
		"version": "1.0.0",
	})
}

// GetNutrition answers the simple calories/protein/fat/carbs lookup. When no
// source has usable data, the response carries source "none" with null
// macros; null macros must never be read as a zero-calorie food.
func (h *Handler) GetNutrition(c *gin.Context) {
	food := c.Param("food")

	result, err := h.nutrition.Lookup(c.Request.Context(), food)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "food name cannot be empty"})
		case errors.Is(err, domain.ErrNoNutritionData):
			c.JSON(http.StatusOK, domain.NutritionResult{Source: domain.SourceNone})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "nutrition lookup failed"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMacros answers the detailed macro lookup with per-100g and
// scaled-to-portion records.
func (h *Handler) GetMacros(c *gin.Context) {
	query := c.Query("query")

	grams := usecase.DefaultPortionGrams
	if raw := c.Query("grams"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "grams must be a positive number"})
			return
		}
		grams = parsed
	}
	includeSurvey := c.Query("include_survey") == "true"

	result, err := h.macros.LookupMacros(c.Request.Context(), query, grams, includeSurvey)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		case errors.Is(err, domain.ErrFoodNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "no foods found for query"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "macro lookup failed"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// createEntryRequest is the POST /entries body. Kcal is a pointer so a zero
// value still satisfies the required binding.
type createEntryRequest struct {
	Name        string               `json:"name"`
	Kcal        *float64             `json:"kcal" binding:"required"`
	Meal        string               `json:"meal"`
	ConsumedAt  *time.Time           `json:"consumedAt"`
	Snapshot    *domain.MacroAmounts `json:"snapshot"`
	LookupQuery string               `json:"lookupQuery"`
	LookupGrams float64              `json:"lookupGrams"`
}

// CreateEntry logs a new consumption or correction event.
func (h *Handler) CreateEntry(c *gin.Context) {
	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kcal is required"})
		return
	}

	input := usecase.CreateEntryInput{
		Name:        req.Name,
		Kcal:        *req.Kcal,
		Meal:        req.Meal,
		Snapshot:    req.Snapshot,
		LookupQuery: req.LookupQuery,
		LookupGrams: req.LookupGrams,
	}
	if req.ConsumedAt != nil {
		input.ConsumedAt = *req.ConsumedAt
	}

	entry, err := h.tracking.CreateEntry(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kcal must be a finite number"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save entry"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// DeleteEntry removes a logged entry.
func (h *Handler) DeleteEntry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	if err := h.tracking.DeleteEntry(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete entry"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListEntries returns the entries of one calendar day (today by default).
func (h *Handler) ListEntries(c *gin.Context) {
	day := c.DefaultQuery("date", domain.DayKey(time.Now()))

	entries, err := h.tracking.ListDay(c.Request.Context(), day)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": day, "entries": entries})
}

// DaySummary returns derived day totals plus goal progress.
func (h *Handler) DaySummary(c *gin.Context) {
	day := c.DefaultQuery("date", domain.DayKey(time.Now()))

	summary, err := h.tracking.Summarize(c.Request.Context(), day)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to summarize day"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// History returns aggregated totals grouped by day, ISO week, month or year.
func (h *Handler) History(c *gin.Context) {
	period := c.DefaultQuery("period", usecase.PeriodDaily)
	to := c.DefaultQuery("to", domain.DayKey(time.Now()))
	from := c.DefaultQuery("from", domain.DayKey(time.Now().AddDate(0, 0, -30)))

	buckets, err := h.tracking.History(c.Request.Context(), period, from, to)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "period must be daily, weekly, monthly or yearly; dates must be YYYY-MM-DD"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": period, "from": from, "to": to, "buckets": buckets})
}

// setGoalRequest is the PUT /goal body.
type setGoalRequest struct {
	Kcal          *float64 `json:"kcal" binding:"required"`
	EffectiveDate string   `json:"effectiveDate"`
}

// SetGoal stores the daily kcal goal.
func (h *Handler) SetGoal(c *gin.Context) {
	var req setGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kcal is required"})
		return
	}

	goal, err := h.tracking.SetGoal(c.Request.Context(), *req.Kcal, req.EffectiveDate)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kcal must be a non-negative finite number"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save goal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"goal":    goal,
		"targets": usecase.SplitGoalIntoMacroTargets(goal.Kcal),
	})
}

// GetGoal returns the goal effective on a date with its derived targets.
func (h *Handler) GetGoal(c *gin.Context) {
	day := c.Query("date")

	status, err := h.tracking.CurrentGoal(c.Request.Context(), day)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load goal"})
		return
	}

	c.JSON(http.StatusOK, status)
}
