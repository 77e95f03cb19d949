package nutritionlog

import (
	"context"
	"time"

	"NutriSnap-Backend/entities"
	"gorm.io/gorm"
)

type (
	NutritionLogRepository interface {
		SaveLog(ctx context.Context, log *entities.NutritionLog) error
		GetLogsByDateRange(ctx context.Context, userID string, start, end time.Time) ([]*entities.NutritionLog, error)
		GetRecentLogs(ctx context.Context, userID string, limit int) ([]*entities.NutritionLog, error)
	}

	nutritionLogRepository struct {
		db *gorm.DB
	}
)

func NewNutritionLogRepository(db *gorm.DB) NutritionLogRepository {
	return &nutritionLogRepository{db: db}
}

func (r *nutritionLogRepository) SaveLog(ctx context.Context, log *entities.NutritionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *nutritionLogRepository) GetLogsByDateRange(ctx context.Context, userID string, start, end time.Time) ([]*entities.NutritionLog, error) {
	var logs []*entities.NutritionLog

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date desc").
		Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *nutritionLogRepository) GetRecentLogs(ctx context.Context, userID string, limit int) ([]*entities.NutritionLog, error) {
	var logs []*entities.NutritionLog

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}
