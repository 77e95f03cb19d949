package nutritionlog

import (
	"context"
	"fmt"
	"time"

	"NutriSnap-Backend/domain"
	"NutriSnap-Backend/entities"
	"NutriSnap-Backend/internal/utils/storage"
	"github.com/google/uuid"
)

type (
	NutritionLogService interface {
		SaveLog(ctx context.Context, req domain.SaveNutritionLogRequest, userID string) (domain.SaveNutritionLogResponse, error)
		GetTodaySummary(ctx context.Context, userID string) (domain.TodaySummaryResponse, error)
		GetRecentLogs(ctx context.Context, userID string, limit int) ([]domain.NutritionLogResponse, error)
	}

	nutritionLogService struct {
		logRepository NutritionLogRepository
		s3            storage.AwsS3
	}
)

func NewNutritionLogService(logRepository NutritionLogRepository, s3 storage.AwsS3) NutritionLogService {
	return &nutritionLogService{
		logRepository: logRepository,
		s3:            s3,
	}
}

func (s *nutritionLogService) SaveLog(ctx context.Context, req domain.SaveNutritionLogRequest, userID string) (domain.SaveNutritionLogResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SaveNutritionLogResponse{}, domain.ErrParseUUID
	}

	if len(req.Foods) == 0 {
		return domain.SaveNutritionLogResponse{}, domain.ErrEmptyFoodList
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err == nil {
			date = parsed
		}
	}

	logID := uuid.New()

	var photoURL string
	if req.Photo != nil {
		fileName := fmt.Sprintf("meal-%s", logID.String())
		objectKey, err := s.s3.UploadFile(fileName, req.Photo, "meal-photos", storage.AllowImage...)
		if err != nil {
			return domain.SaveNutritionLogResponse{}, err
		}
		photoURL = s.s3.GetPublicLinkKey(objectKey)
	}

	totals := sumFoods(req.Foods)

	log := &entities.NutritionLog{
		ID:            logID,
		UserID:        userUUID,
		MealType:      req.MealType,
		Source:        req.Source,
		Foods:         req.Foods,
		PhotoURL:      photoURL,
		Date:          date,
		TotalCalories: totals.calories,
		TotalProtein:  totals.protein,
		TotalCarbs:    totals.carbs,
		TotalFats:     totals.fats,
	}

	if err := s.logRepository.SaveLog(ctx, log); err != nil {
		return domain.SaveNutritionLogResponse{}, err
	}

	return domain.SaveNutritionLogResponse{
		ID:            log.ID.String(),
		MealType:      log.MealType,
		Source:        log.Source,
		Foods:         log.Foods,
		PhotoURL:      log.PhotoURL,
		Date:          log.Date,
		TotalCalories: log.TotalCalories,
		TotalProtein:  log.TotalProtein,
		TotalCarbs:    log.TotalCarbs,
		TotalFats:     log.TotalFats,
	}, nil
}

func (s *nutritionLogService) GetTodaySummary(ctx context.Context, userID string) (domain.TodaySummaryResponse, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	logs, err := s.logRepository.GetLogsByDateRange(ctx, userID, startOfDay, endOfDay)
	if err != nil {
		return domain.TodaySummaryResponse{}, err
	}

	summary := domain.TodaySummaryResponse{
		MealCount: len(logs),
		Logs:      make([]domain.NutritionLogResponse, 0, len(logs)),
	}

	for _, log := range logs {
		summary.TotalCalories += log.TotalCalories
		summary.TotalProtein += log.TotalProtein
		summary.TotalCarbs += log.TotalCarbs
		summary.TotalFats += log.TotalFats
		summary.Logs = append(summary.Logs, toLogResponse(log))
	}

	return summary, nil
}

func (s *nutritionLogService) GetRecentLogs(ctx context.Context, userID string, limit int) ([]domain.NutritionLogResponse, error) {
	if limit < 1 {
		limit = 10
	}

	logs, err := s.logRepository.GetRecentLogs(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	response := make([]domain.NutritionLogResponse, 0, len(logs))
	for _, log := range logs {
		response = append(response, toLogResponse(log))
	}

	return response, nil
}

type macroTotals struct {
	calories float64
	protein  float64
	carbs    float64
	fats     float64
}

func sumFoods(foods []domain.FoodItem) macroTotals {
	var totals macroTotals
	for _, f := range foods {
		totals.calories += f.Calories
		totals.protein += f.Protein
		totals.carbs += f.Carbs
		totals.fats += f.Fats
	}
	return totals
}

func toLogResponse(log *entities.NutritionLog) domain.NutritionLogResponse {
	return domain.NutritionLogResponse{
		ID:            log.ID.String(),
		MealType:      log.MealType,
		Source:        log.Source,
		Foods:         log.Foods,
		PhotoURL:      log.PhotoURL,
		Date:          log.Date,
		TotalCalories: log.TotalCalories,
		TotalProtein:  log.TotalProtein,
		TotalCarbs:    log.TotalCarbs,
		TotalFats:     log.TotalFats,
		CreatedAt:     log.CreatedAt,
	}
}
