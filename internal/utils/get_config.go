package utils

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT key
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Gemini API configuration
	GeminiAPIKey string `yaml:"GEMINI_API_KEY"`
	GeminiModel  string `yaml:"GEMINI_MODEL"`

	// USDA FoodData Central (optional, enrichment is disabled without it)
	USDAAPIKey string `yaml:"USDA_API_KEY"`

	// Telegram bot
	TelegramBotToken string `yaml:"TELEGRAM_BOT_TOKEN"`
}

var config Config

func LoadConfig() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}

	// Mirror keys that other layers read through os.Getenv
	os.Setenv("JWT_SECRET", config.JWTSecret)
	os.Setenv("AWS_S3_BUCKET", config.AWSS3Bucket)
	os.Setenv("AWS_S3_REGION", config.AWSS3Region)
	os.Setenv("AWS_ACCESS_KEY", config.AWSAccessKey)
	os.Setenv("AWS_SECRET_KEY", config.AWSSecretKey)
	os.Setenv("GEMINI_API_KEY", config.GeminiAPIKey)
	os.Setenv("GEMINI_MODEL", config.GeminiModel)
	os.Setenv("USDA_API_KEY", config.USDAAPIKey)
	os.Setenv("TELEGRAM_BOT_TOKEN", config.TelegramBotToken)
}

func GetConfig(key string) string {
	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return valueOrEnv(config.JWTSecret, "JWT_SECRET")
	case "APP_URL":
		return config.AppURL
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return valueOrEnv(config.AWSS3Bucket, "AWS_S3_BUCKET")
	case "AWS_S3_REGION":
		return valueOrEnv(config.AWSS3Region, "AWS_S3_REGION")
	case "AWS_ACCESS_KEY":
		return valueOrEnv(config.AWSAccessKey, "AWS_ACCESS_KEY")
	case "AWS_SECRET_KEY":
		return valueOrEnv(config.AWSSecretKey, "AWS_SECRET_KEY")
	case "GEMINI_API_KEY":
		return valueOrEnv(config.GeminiAPIKey, "GEMINI_API_KEY")
	case "GEMINI_MODEL":
		return valueOrEnv(config.GeminiModel, "GEMINI_MODEL")
	case "USDA_API_KEY":
		return valueOrEnv(config.USDAAPIKey, "USDA_API_KEY")
	case "TELEGRAM_BOT_TOKEN":
		return valueOrEnv(config.TelegramBotToken, "TELEGRAM_BOT_TOKEN")
	default:
		return ""
	}
}

// valueOrEnv lets a .env-only deployment work without config.yaml.
func valueOrEnv(value, envKey string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envKey)
}
