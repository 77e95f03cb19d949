package entities

import (
	"time"

	"NutriSnap-Backend/domain"
	"github.com/google/uuid"
)

type NutritionLog struct {
	ID       uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID   uuid.UUID        `gorm:"index" json:"user_id"`
	MealType string           `json:"meal_type"` // "breakfast", "lunch", "dinner", "snack"
	Source   string           `json:"source"`    // "manual", "camera", "telegram"
	Foods    domain.FoodItems `gorm:"type:jsonb" json:"foods"`
	PhotoURL string           `json:"photo_url,omitempty"`
	Date     time.Time        `gorm:"index" json:"date"`

	// Pre-aggregated so the dashboard never re-sums foods.
	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"`
	TotalFats     float64 `json:"total_fats"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
