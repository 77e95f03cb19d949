package handlers

import (
	"encoding/json"
	"log"
	"time"

	"NutriSnap-Backend/pkg/telegram"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
)

type (
	TelegramHandler interface {
		HandleWebhook(c *fiber.Ctx) error
		WebhookStatus(c *fiber.Ctx) error
	}

	telegramHandler struct {
		botService telegram.BotService
	}
)

func NewTelegramHandler(botService telegram.BotService) TelegramHandler {
	return &telegramHandler{botService: botService}
}

func (h *telegramHandler) HandleWebhook(c *fiber.Ctx) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(c.Body(), &update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid update payload"})
	}

	// Telegram retries on non-2xx; bot-side failures are logged instead of
	// surfaced so a broken photo never causes redelivery loops.
	if err := h.botService.HandleUpdate(c.Context(), update); err != nil {
		log.Printf("Telegram bot error: %v", err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

func (h *telegramHandler) WebhookStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   "Telegram webhook endpoint is active",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
