package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	MessageSuccessAnalyzeFood = "food image analyzed successfully"
	MessageFailedAnalyzeFood  = "failed to analyze food image"

	ErrUnsupportedMediaType  = errors.New("uploaded file must be an image")
	ErrPayloadTooLarge       = errors.New("image file is too large, maximum size is 10MB")
	ErrMissingGeminiKey      = errors.New("gemini API key is not configured")
	ErrEmptyGeminiResponse   = errors.New("empty response from gemini API")
	ErrMalformedAIResponse   = errors.New("failed to parse JSON response from gemini")
	ErrMissingFoodsField     = errors.New("response missing 'foods' array")
	ErrUpstreamRateLimited   = errors.New("gemini API quota exceeded or rate limit reached")
	ErrUpstreamSafetyBlocked = errors.New("image was blocked by gemini safety filters")
	ErrUpstreamAuthError     = errors.New("gemini API key is invalid or missing")
	ErrUpstreamFailure       = errors.New("gemini API request failed")
)

type (
	// FoodItem is one detected food with its estimated macros. Calories are
	// kcal, the other three fields are grams, all rounded to one decimal.
	FoodItem struct {
		Name     string  `json:"name"`
		Quantity string  `json:"quantity"`
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fats     float64 `json:"fats"`
	}

	// AnalysisResult wraps the detected foods in the order the model listed
	// them. An empty slice is a valid "no food detected" outcome.
	AnalysisResult struct {
		Foods []FoodItem `json:"foods"`
	}

	// EnrichmentMatch is a nutrition database lookup result. Nil macro fields
	// mean the database had no opinion and the AI estimate stands. Name is
	// the canonical matched description, informational only.
	EnrichmentMatch struct {
		Name     string
		Calories *float64
		Protein  *float64
		Carbs    *float64
		Fats     *float64
	}

	// FoodItems is stored as a jsonb column on nutrition logs.
	FoodItems []FoodItem
)

func (f FoodItems) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *FoodItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("unsupported type for FoodItems: %T", value)
	}
}
