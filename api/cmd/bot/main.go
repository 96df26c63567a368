package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"lookism-bot/api/internal/config"
	"lookism-bot/api/internal/facepp"
	"lookism-bot/api/internal/httpserver"
	"lookism-bot/api/internal/llm"
	"lookism-bot/api/internal/llm/deepseek"
	"lookism-bot/api/internal/llm/gemini"
	"lookism-bot/api/internal/payments"
	"lookism-bot/api/internal/photocheck"
	"lookism-bot/api/internal/queue"
	"lookism-bot/api/internal/reminder"
	"lookism-bot/api/internal/store"
	"lookism-bot/api/internal/telegram"
)

func main() {
	cfg := config.Load()

	// --- Postgres ---
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("sql.Open: %v", err)
	}
	// connection pool tune (нагрузка до ~20 rps)
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
		log.Printf("db connected: %s", safeDSNSummary(cfg.DatabaseURL))
	}

	users := store.NewUserRepo(db)
	sessions := store.NewSessionRepo(db)

	// --- Redis queue ---
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

	// --- Telegram bot ---
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal(err)
	}
	bot.Debug = false

	// Движки отчётов/чата: дефолт — DeepSeek, Gemini как резерв (/engine gemini)
	ds := deepseek.New(cfg.DeepseekAPIKey, cfg.DeepseekModel)
	manager := llm.NewManager(ds)
	engines := map[string]llm.Engine{"deepseek": ds}
	if cfg.GeminiAPIKey != "" {
		engines["gemini"] = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	}

	pay := payments.New(cfg.YookassaShopID, cfg.YookassaSecretKey, cfg.SubscriptionPrice, cfg.Currency)
	checker := photocheck.New(facepp.New(cfg.FaceppAPIKey, cfg.FaceppAPISecret))

	returnURL := "https://t.me/" + bot.Self.UserName
	r := &telegram.Router{
		Bot:       bot,
		Users:     users,
		Sessions:  sessions,
		Queue:     q,
		Checker:   checker,
		Payments:  pay,
		LLM:       manager,
		Engines:   engines,
		AdminIDs:  cfg.AdminIDs,
		ReturnURL: returnURL,
	}

	// --- HTTP на DefaultServeMux: healthz + вебхук оплат (+ вебхук Telegram) ---
	httpserver.RegisterHealthz(db)
	httpserver.RegisterYookassaWebhook(bot, users)

	// --- напоминания о подписке ---
	rem := &reminder.Reminder{Bot: bot, Users: users}
	go rem.Run(context.Background())

	addr := "0.0.0.0:" + cfg.Port
	if strings.TrimSpace(cfg.WebhookURL) != "" {
		startWebhookMode(addr, bot, r, cfg.WebhookURL)
	} else {
		startPollingMode(addr, bot, r)
	}
}

// ---------------- Modes -----------------

func startWebhookMode(addr string, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string) {
	// секретный путь вебхука
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		log.Fatal(err)
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		log.Fatal(err)
	}

	// tgbotapi.ListenForWebhook регистрирует обработчик на DefaultServeMux
	updates := bot.ListenForWebhook(path)

	go func() {
		for upd := range updates {
			r.HandleUpdate(upd)
		}
		log.Printf("webhook updates channel closed")
	}()

	log.Printf("webhook listening on %s%s", addr, path)
	if err := http.ListenAndServe(addr, nil); err != nil { // DefaultServeMux
		log.Fatal(err)
	}
}

func startPollingMode(addr string, bot *tgbotapi.BotAPI, r *telegram.Router) {
	go func() {
		log.Printf("health server listening on %s/healthz", addr)
		if err := http.ListenAndServe(addr, nil); err != nil { // DefaultServeMux
			log.Fatal(err)
		}
	}()

	// Устойчивый поллинг с backoff без log.Fatal/os.Exit
	runPolling(context.Background(), bot, r.HandleUpdate)
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429 от Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return 2 * time.Second
		}
	}
	return 1 * time.Second
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			log.Printf("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := retryDelayFromError(err)
			if d < baseDelay {
				d = baseDelay
			}
			if d > maxDelay {
				d = maxDelay
			}
			log.Printf("polling error: %v; retry in %v", err, d)
			time.Sleep(d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			time.Sleep(200 * time.Millisecond)
		}
	}
}

// ---------------- Helpers -----------------

func shortHash(s string) string {
	// лёгкий хэш для пути вебхука (не крипто, но стабильно для токена)
	h := uint64(1469598103934665603)
	const prime = 1099511628211
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	// 16-символный hex
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[h&0xF]
		h >>= 4
	}
	return string(out)
}

func safeDSNSummary(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "dsn: parse error"
	}
	user := u.User.Username()
	host := u.Host
	port := ""
	if h, p, err := net.SplitHostPort(u.Host); err == nil {
		host, port = h, p
	}
	db := strings.TrimPrefix(u.Path, "/")
	if port == "" {
		return fmt.Sprintf("host=%s db=%s user=%s", host, db, user)
	}
	return fmt.Sprintf("host=%s port=%s db=%s user=%s", host, port, db, user)
}
