package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"NutriSnap-Backend/domain"
	"NutriSnap-Backend/internal/utils"
	"NutriSnap-Backend/pkg/analysis"
	"NutriSnap-Backend/pkg/nutritionlog"
	"NutriSnap-Backend/pkg/user"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	botInstance *tgbotapi.BotAPI
	botInitErr  error
	botOnce     sync.Once
)

// getBot constructs the Telegram API client at most once per process; the
// token never changes at runtime and the client is safe for concurrent use.
func getBot() (*tgbotapi.BotAPI, error) {
	botOnce.Do(func() {
		token := utils.GetConfig("TELEGRAM_BOT_TOKEN")
		if token == "" {
			botInitErr = errors.New("TELEGRAM_BOT_TOKEN is not configured")
			return
		}
		botInstance, botInitErr = tgbotapi.NewBotAPI(token)
	})
	return botInstance, botInitErr
}

type (
	// BotService handles webhook updates: commands, food photos, and plain
	// text. Photo analysis failures are reported to the chat, never
	// propagated to the webhook.
	BotService interface {
		HandleUpdate(ctx context.Context, update tgbotapi.Update) error
	}

	botService struct {
		analysisService analysis.AnalysisService
		logService      nutritionlog.NutritionLogService
		userService     user.UserService
		httpClient      *http.Client
	}
)

func NewBotService(
	analysisService analysis.AnalysisService,
	logService nutritionlog.NutritionLogService,
	userService user.UserService,
) BotService {
	return &botService{
		analysisService: analysisService,
		logService:      logService,
		userService:     userService,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *botService) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}

	bot, err := getBot()
	if err != nil {
		return err
	}

	message := update.Message

	switch {
	case message.IsCommand():
		return s.handleCommand(ctx, bot, message)
	case len(message.Photo) > 0:
		return s.handlePhoto(ctx, bot, message)
	default:
		return s.reply(bot, message.Chat.ID,
			"📸 Please send me a photo of your food to analyze its nutrition information.\n\n"+
				"Use /help for more information.")
	}
}

func (s *botService) handleCommand(ctx context.Context, bot *tgbotapi.BotAPI, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		return s.handleStart(ctx, bot, message)
	case "help":
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"📖 <b>How to use:</b>\n\n"+
				"1. Take a photo of your food\n"+
				"2. Send it to me\n"+
				"3. I'll analyze it and show you the nutrition info\n"+
				"4. The data will be saved automatically\n\n"+
				"<b>Commands:</b>\n"+
				"/start - Start the bot\n"+
				"/help - Show this help message\n\n"+
				"<i>Note: Make sure your food is clearly visible in the photo for best results.</i>")
		msg.ParseMode = tgbotapi.ModeHTML
		_, err := bot.Send(msg)
		return err
	default:
		return s.reply(bot, message.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
}

func (s *botService) handleStart(ctx context.Context, bot *tgbotapi.BotAPI, message *tgbotapi.Message) error {
	telegramID := strconv.FormatInt(message.From.ID, 10)
	appURL := utils.GetConfig("APP_URL")

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📊 Open Dashboard", appURL+"/dashboard"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🧮 Calorie Calculator", appURL+"/calculator"),
		),
	)

	var text string
	if _, err := s.userService.GetUserByTelegramID(ctx, telegramID); err != nil {
		text = "👋 Welcome! Let's get started!\n\nTap the button below to set up your profile:"
	} else {
		text = "👋 Welcome back!\n\n📸 Send a food photo for instant analysis\n📊 Or open the dashboard for detailed stats"
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = keyboard
	_, err := bot.Send(msg)
	return err
}

func (s *botService) handlePhoto(ctx context.Context, bot *tgbotapi.BotAPI, message *tgbotapi.Message) error {
	// Telegram orders photo sizes ascending; take the largest.
	largest := message.Photo[len(message.Photo)-1]

	analyzing := tgbotapi.NewMessage(message.Chat.ID, "🔍 Analyzing your food photo...")
	analyzingMsg, err := bot.Send(analyzing)
	if err != nil {
		return err
	}

	dataURL, err := s.downloadPhoto(ctx, bot, largest.FileID)
	if err != nil {
		log.Printf("Error downloading telegram photo: %v", err)
		return s.edit(bot, message.Chat.ID, analyzingMsg.MessageID,
			"❌ Could not download the photo. Please try again.")
	}

	result, err := s.analysisService.AnalyzeEncodedImage(ctx, dataURL)
	if err != nil {
		log.Printf("Error analyzing telegram photo: %v", err)
		return s.edit(bot, message.Chat.ID, analyzingMsg.MessageID,
			"❌ An error occurred while analyzing your photo. Please try again later.")
	}

	if len(result.Foods) == 0 {
		return s.edit(bot, message.Chat.ID, analyzingMsg.MessageID,
			"❌ No food items detected in the photo. Please make sure the food is clearly visible and try again.")
	}

	if err := s.edit(bot, message.Chat.ID, analyzingMsg.MessageID, FormatAnalysisResult(result.Foods)); err != nil {
		return err
	}

	telegramID := strconv.FormatInt(message.From.ID, 10)
	linked, err := s.userService.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return s.reply(bot, message.Chat.ID,
			"⚠️ Your Telegram account is not linked to a NutriSnap profile yet, so this meal was not saved. "+
				"Use /start to set up your profile.")
	}

	_, err = s.logService.SaveLog(ctx, domain.SaveNutritionLogRequest{
		MealType: domain.MealTypeSnack,
		Source:   domain.SourceTelegram,
		Foods:    result.Foods,
	}, linked.ID.String())
	if err != nil {
		log.Printf("Error saving telegram nutrition log: %v", err)
		return s.reply(bot, message.Chat.ID, "⚠️ The analysis succeeded but saving to your log failed. Please try again.")
	}

	return s.reply(bot, message.Chat.ID, "✅ Nutrition data saved successfully to your log!")
}

// downloadPhoto fetches the photo bytes from Telegram's file API and encodes
// them through the same validator the web upload path uses.
func (s *botService) downloadPhoto(ctx context.Context, bot *tgbotapi.BotAPI, fileID string) (string, error) {
	file, err := bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", err
	}
	if file.FilePath == "" {
		return "", errors.New("telegram returned no file path")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(bot.Token), nil)
	if err != nil {
		return "", err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download photo from telegram: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return analysis.EncodeImage(mimeTypeFromPath(file.FilePath), data)
}

func mimeTypeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// FormatAnalysisResult renders the per-item breakdown and totals as HTML.
func FormatAnalysisResult(foods []domain.FoodItem) string {
	var b strings.Builder
	b.WriteString("✅ <b>Nutrition Analysis Results:</b>\n\n")

	var totalCalories, totalProtein, totalCarbs, totalFats float64
	for i, food := range foods {
		totalCalories += food.Calories
		totalProtein += food.Protein
		totalCarbs += food.Carbs
		totalFats += food.Fats

		fmt.Fprintf(&b, "<b>%d. %s</b>\n", i+1, food.Name)
		fmt.Fprintf(&b, "   Quantity: %s\n", food.Quantity)
		fmt.Fprintf(&b, "   Calories: %.1f kcal\n", food.Calories)
		fmt.Fprintf(&b, "   Protein: %.1fg | Carbs: %.1fg | Fats: %.1fg\n\n", food.Protein, food.Carbs, food.Fats)
	}

	b.WriteString("<b>📊 Total:</b>\n")
	fmt.Fprintf(&b, "   Calories: %.1f kcal\n", totalCalories)
	fmt.Fprintf(&b, "   Protein: %.1fg\n", totalProtein)
	fmt.Fprintf(&b, "   Carbs: %.1fg\n", totalCarbs)
	fmt.Fprintf(&b, "   Fats: %.1fg", totalFats)

	return b.String()
}

func (s *botService) reply(bot *tgbotapi.BotAPI, chatID int64, text string) error {
	_, err := bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (s *botService) edit(bot *tgbotapi.BotAPI, chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	_, err := bot.Send(edit)
	return err
}
