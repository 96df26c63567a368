package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config — конфигурация процесса. Загружается один раз на старте,
// дальше только читается.
type Config struct {
	Port string `validate:"required"`

	TelegramBotToken string `validate:"required"`
	WebhookURL       string
	AdminIDs         []int64

	DatabaseURL string `validate:"required"`
	RedisURL    string `validate:"required"`

	FaceppAPIKey    string `validate:"required"`
	FaceppAPISecret string `validate:"required"`
	AILabAPIKey     string `validate:"required"`
	AILabAPISecret  string `validate:"required"`

	DeepseekAPIKey string `validate:"required"`
	DeepseekModel  string `validate:"required"`
	GeminiAPIKey   string
	GeminiModel    string

	YookassaShopID    string
	YookassaSecretKey string
	SubscriptionPrice int    `validate:"gt=0"`
	Currency          string `validate:"required"`

	WorkerConcurrency int `validate:"gt=0"`
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("env %s must be an integer, got %q", k, v)
	}
	return n
}

func parseAdminIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Fatalf("ADMIN_IDS contains non-numeric id %q", part)
		}
		ids = append(ids, id)
	}
	return ids
}

// Load читает окружение (с .env, если есть) и валидирует обязательные поля.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		TelegramBotToken: mustEnv("BOT_TOKEN"),
		WebhookURL:       os.Getenv("WEBHOOK_URL"),
		AdminIDs:         parseAdminIDs(os.Getenv("ADMIN_IDS")),

		DatabaseURL: mustEnv("DATABASE_URL"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),

		FaceppAPIKey:    mustEnv("FACEPP_API_KEY"),
		FaceppAPISecret: mustEnv("FACEPP_API_SECRET"),
		AILabAPIKey:     mustEnv("AILAB_API_KEY"),
		AILabAPISecret:  mustEnv("AILAB_API_SECRET"),

		DeepseekAPIKey: mustEnv("DEEPSEEK_API_KEY"),
		DeepseekModel:  getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		YookassaShopID:    os.Getenv("YOOKASSA_SHOP_ID"),
		YookassaSecretKey: os.Getenv("YOOKASSA_SECRET_KEY"),
		SubscriptionPrice: getEnvInt("SUBSCRIPTION_PRICE", 999),
		Currency:          getEnv("SUBSCRIPTION_CURRENCY", "RUB"),

		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 2),
	}

	if err := validator.New().Struct(cfg); err != nil {
		log.Fatalf("config validation: %v", err)
	}
	return cfg
}
