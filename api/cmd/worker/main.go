package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"lookism-bot/api/internal/ailab"
	"lookism-bot/api/internal/config"
	"lookism-bot/api/internal/engine"
	"lookism-bot/api/internal/facepp"
	"lookism-bot/api/internal/llm"
	"lookism-bot/api/internal/llm/deepseek"
	"lookism-bot/api/internal/queue"
	"lookism-bot/api/internal/store"
	"lookism-bot/api/internal/worker"
)

func main() {
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("sql.Open: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(1 * time.Hour)

	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("db.Ping: %v", err)
		}
		if err := store.Setup(ctx, db); err != nil {
			log.Fatalf("store.Setup: %v", err)
		}
	}

	q, err := queue.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("queue.New: %v", err)
	}
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := q.Ping(ctx); err != nil {
			log.Fatalf("redis.Ping: %v", err)
		}
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal(err)
	}

	agg, err := engine.NewAggregator(engine.DefaultConfig())
	if err != nil {
		log.Fatalf("engine config: %v", err)
	}

	manager := llm.NewManager(deepseek.New(cfg.DeepseekAPIKey, cfg.DeepseekModel))

	w := worker.New(
		bot, q,
		store.NewSessionRepo(db), store.NewTaskRepo(db),
		facepp.New(cfg.FaceppAPIKey, cfg.FaceppAPISecret),
		ailab.New(cfg.AILabAPIKey, cfg.AILabAPISecret),
		manager, agg,
		cfg.WorkerConcurrency,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	w.Run(ctx)
}
