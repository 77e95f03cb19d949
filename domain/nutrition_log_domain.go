package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"

	SourceManual   = "manual"
	SourceCamera   = "camera"
	SourceTelegram = "telegram"
)

var (
	MessageSuccessSaveNutritionLog = "nutrition log saved successfully"
	MessageSuccessGetTodaySummary  = "today's summary retrieved successfully"
	MessageSuccessGetRecentLogs    = "recent logs retrieved successfully"
	MessageSuccessGetTargets       = "nutrition targets retrieved successfully"

	MessageFailedSaveNutritionLog = "failed to save nutrition log"
	MessageFailedGetTodaySummary  = "failed to retrieve today's summary"
	MessageFailedGetRecentLogs    = "failed to retrieve recent logs"
	MessageFailedGetTargets       = "failed to retrieve nutrition targets"

	ErrEmptyFoodList = errors.New("nutrition log must contain at least one food item")
)

type (
	SaveNutritionLogRequest struct {
		MealType string                `json:"meal_type" form:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
		Source   string                `json:"source" form:"source" validate:"required,oneof=manual camera telegram"`
		Foods    []FoodItem            `json:"foods" form:"-" validate:"required,min=1,dive"`
		Date     string                `json:"date" form:"date" validate:"omitempty"`
		Photo    *multipart.FileHeader `json:"-" form:"-" validate:"omitempty"`
	}

	SaveNutritionLogResponse struct {
		ID            string     `json:"id"`
		MealType      string     `json:"meal_type"`
		Source        string     `json:"source"`
		Foods         []FoodItem `json:"foods"`
		PhotoURL      string     `json:"photo_url,omitempty"`
		Date          time.Time  `json:"date"`
		TotalCalories float64    `json:"total_calories"`
		TotalProtein  float64    `json:"total_protein"`
		TotalCarbs    float64    `json:"total_carbs"`
		TotalFats     float64    `json:"total_fats"`
	}

	NutritionLogResponse struct {
		ID            string     `json:"id"`
		MealType      string     `json:"meal_type"`
		Source        string     `json:"source"`
		Foods         []FoodItem `json:"foods"`
		PhotoURL      string     `json:"photo_url,omitempty"`
		Date          time.Time  `json:"date"`
		TotalCalories float64    `json:"total_calories"`
		TotalProtein  float64    `json:"total_protein"`
		TotalCarbs    float64    `json:"total_carbs"`
		TotalFats     float64    `json:"total_fats"`
		CreatedAt     time.Time  `json:"created_at"`
	}

	TodaySummaryResponse struct {
		TotalCalories float64                `json:"total_calories"`
		TotalProtein  float64                `json:"total_protein"`
		TotalCarbs    float64                `json:"total_carbs"`
		TotalFats     float64                `json:"total_fats"`
		MealCount     int                    `json:"meal_count"`
		Logs          []NutritionLogResponse `json:"logs"`
	}
)
