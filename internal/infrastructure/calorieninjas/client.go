package calorieninjas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/caloriehawk/backend/internal/domain"
)

const defaultBaseURL = "https://api.calorieninjas.com"

// Client queries the CalorieNinjas nutrition API. It is the first source in
// the lookup fallback chain.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a new CalorieNinjas client. An empty baseURL falls back
// to the public API endpoint.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// Name implements domain.NutritionSource.
func (c *Client) Name() string { return domain.SourceCalorieNinjas }

// itemsResponse is the CalorieNinjas wire shape. Field values occasionally
// arrive as strings, so they go through FlexFloat.
type itemsResponse struct {
	Items []struct {
		Name     string           `json:"name"`
		Calories domain.FlexFloat `json:"calories"`
		Protein  domain.FlexFloat `json:"protein_g"`
		Fat      domain.FlexFloat `json:"fat_total_g"`
		Carbs    domain.FlexFloat `json:"carbohydrates_total_g"`
	} `json:"items"`
}

// Lookup implements domain.NutritionSource: it returns the first item's
// macros, or ErrFoodNotFound when the API knows nothing about the query.
func (c *Client) Lookup(ctx context.Context, query string) (*domain.NutritionResult, error) {
	reqURL := fmt.Sprintf("%s/v1/nutrition?query=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrUpstreamFailure, resp.StatusCode, string(body))
	}

	var parsed itemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Items) == 0 {
		return nil, domain.ErrFoodNotFound
	}

	item := parsed.Items[0]
	return &domain.NutritionResult{
		Calories: item.Calories.Ptr(),
		Protein:  item.Protein.Ptr(),
		Fat:      item.Fat.Ptr(),
		Carbs:    item.Carbs.Ptr(),
		Source:   domain.SourceCalorieNinjas,
	}, nil
}
