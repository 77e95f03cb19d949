package routes

import (
	"NutriSnap-Backend/internal/api/handlers"
	"NutriSnap-Backend/internal/middleware"
	"NutriSnap-Backend/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	NutritionHandler handlers.NutritionHandler
	TelegramHandler  handlers.TelegramHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Nutrition()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
		user.Post("/avatar", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UploadAvatar)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
	}
}

func (c *Config) Nutrition() {
	nutrition := c.App.Group("/api/v1/nutrition", c.Middleware.AuthMiddleware(c.JWTService))

	nutrition.Post("/analyze", c.NutritionHandler.AnalyzeFood)
	nutrition.Post("/logs", c.NutritionHandler.SaveLog)
	nutrition.Get("/logs/today", c.NutritionHandler.GetTodaySummary)
	nutrition.Get("/logs", c.NutritionHandler.GetRecentLogs)
	nutrition.Get("/targets", c.UserHandler.GetTargets)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong, its works"})
	})
	c.App.Post("/webhook/telegram", c.TelegramHandler.HandleWebhook)
	c.App.Get("/webhook/telegram", c.TelegramHandler.WebhookStatus)
}
