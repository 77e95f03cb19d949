package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"NutriSnap-Backend/domain"
	"NutriSnap-Backend/internal/api/presenters"
	"NutriSnap-Backend/pkg/analysis"
	"NutriSnap-Backend/pkg/nutritionlog"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	NutritionHandler interface {
		AnalyzeFood(c *fiber.Ctx) error
		SaveLog(c *fiber.Ctx) error
		GetTodaySummary(c *fiber.Ctx) error
		GetRecentLogs(c *fiber.Ctx) error
	}

	nutritionHandler struct {
		analysisService analysis.AnalysisService
		logService      nutritionlog.NutritionLogService
		validator       *validator.Validate
	}
)

func NewNutritionHandler(
	analysisService analysis.AnalysisService,
	logService nutritionlog.NutritionLogService,
	validator *validator.Validate,
) NutritionHandler {
	return &nutritionHandler{
		analysisService: analysisService,
		logService:      logService,
		validator:       validator,
	}
}

func (h *nutritionHandler) AnalyzeFood(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAnalyzeFood, errors.New("no image file provided"))
	}

	result, err := h.analysisService.AnalyzeImage(c.Context(), file)
	if err != nil {
		return presenters.ErrorResponse(c, analyzeStatusCode(err), domain.MessageFailedAnalyzeFood, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessAnalyzeFood)
}

// analyzeStatusCode maps pipeline failures to HTTP statuses: validation and
// safety blocks are the client's problem, rate limits are 429, everything
// else (config, upstream contract violations) is a 500.
func analyzeStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedMediaType),
		errors.Is(err, domain.ErrPayloadTooLarge),
		errors.Is(err, domain.ErrUpstreamSafetyBlocked):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUpstreamRateLimited):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *nutritionHandler) SaveLog(c *fiber.Ctx) error {
	req := new(domain.SaveNutritionLogRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	// Multipart saves carry the foods array as a JSON form value next to the
	// photo; plain JSON saves arrive through BodyParser directly.
	if photo, err := c.FormFile("photo"); err == nil {
		req.Photo = photo
		if foodsJSON := c.FormValue("foods"); foodsJSON != "" {
			if err := json.Unmarshal([]byte(foodsJSON), &req.Foods); err != nil {
				return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
			}
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveNutritionLog, err)
	}

	userID := c.Locals("user_id").(string)
	res, err := h.logService.SaveLog(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveNutritionLog, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSaveNutritionLog)
}

func (h *nutritionHandler) GetTodaySummary(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.logService.GetTodaySummary(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetTodaySummary, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTodaySummary)
}

func (h *nutritionHandler) GetRecentLogs(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	res, err := h.logService.GetRecentLogs(c.Context(), userID, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecentLogs, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"logs": res}, fiber.StatusOK, domain.MessageSuccessGetRecentLogs)
}
