package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name          string    `json:"name"`
	Email         string    `gorm:"uniqueIndex" json:"email"`
	Password      string    `json:"-"`
	Role          string    `json:"role"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`         // "male", "female"
	Height        float64   `json:"height"`         // cm
	Weight        float64   `json:"weight"`         // kg
	ActivityLevel string    `json:"activity_level"` // "sedentary", "light", "moderate", "active", "very-active"
	Goal          string    `json:"goal"`           // "lose-weight", "maintain-weight", "gain-weight", "build-muscle", "improve-health"
	TelegramID    string    `gorm:"index" json:"telegram_id,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	IsVerified    bool      `json:"is_verified"`

	NutritionLogs []*NutritionLog `gorm:"foreignKey:UserID"`
	Timestamp
}
