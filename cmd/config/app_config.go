package config

import (
	"os"
	"time"

	"NutriSnap-Backend/internal/api/handlers"
	"NutriSnap-Backend/internal/api/routes"
	"NutriSnap-Backend/internal/middleware"
	"NutriSnap-Backend/internal/utils"
	"NutriSnap-Backend/internal/utils/storage"
	"NutriSnap-Backend/pkg/analysis"
	"NutriSnap-Backend/pkg/jwt"
	"NutriSnap-Backend/pkg/nutritionlog"
	"NutriSnap-Backend/pkg/telegram"
	"NutriSnap-Backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         12 * 1024 * 1024, // a bit above the 10 MiB image ceiling
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	logRepository := nutritionlog.NewNutritionLogRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, s3)
	logService := nutritionlog.NewNutritionLogService(logRepository, s3)
	analysisService := analysis.NewAnalysisService(analysis.NewGeminiClient(), analysis.NewUSDAClient())
	botService := telegram.NewBotService(analysisService, logService, userService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	nutritionHandler := handlers.NewNutritionHandler(analysisService, logService, validator)
	telegramHandler := handlers.NewTelegramHandler(botService)

	// routes
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      userHandler,
		NutritionHandler: nutritionHandler,
		TelegramHandler:  telegramHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
