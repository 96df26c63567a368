package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lookism-bot/api/internal/llm"
	"lookism-bot/api/internal/logger"
	"lookism-bot/api/internal/payments"
	"lookism-bot/api/internal/photocheck"
	"lookism-bot/api/internal/queue"
	"lookism-bot/api/internal/store"
)

type Router struct {
	Bot      *tgbotapi.BotAPI
	Users    *store.UserRepo
	Sessions *store.SessionRepo
	Queue    *queue.Queue
	Checker  *photocheck.Checker
	Payments *payments.Client
	LLM      *llm.Manager

	// именованные LLM-движки для переключения через /engine
	Engines map[string]llm.Engine

	AdminIDs  []int64
	ReturnURL string // куда YooKassa вернёт пользователя после оплаты
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.HandleCommand(upd)
		return
	}

	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(*upd.Message)
		return
	}

	if upd.Message.Text != "" && getMode(cid) == modeChat {
		r.handleChatMessage(cid, upd.Message.Text)
		return
	}

	r.send(cid, "Пришлите фото по инструкции или используйте /help.")
}

func (r *Router) HandleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	from := upd.Message.From

	switch upd.Message.Command() {
	case "start":
		r.handleStart(cid, from, upd.Message.CommandArguments())
	case "help":
		r.send(cid, helpText)
	case "analyze":
		r.handleAnalyze(cid)
	case "status":
		r.handleStatus(cid)
	case "subscribe":
		r.handleSubscribe(cid)
	case "report":
		r.handleReport(cid)
	case "chat":
		r.handleChatStart(cid)
	case "stop":
		clearMode(cid)
		clearSession(cid)
		r.send(cid, "Ок, остановился. /analyze — новый анализ, /chat — вопросы коучу.")
	case "grant", "revoke", "stats", "engine":
		r.handleAdminCommand(cid, upd.Message.Command(), upd.Message.CommandArguments())
	default:
		r.send(cid, "Неизвестная команда. /help — список команд.")
	}
}

const helpText = `ND | Lookism — анализ внешности по двум фото.

/analyze — запустить анализ (нужна подписка)
/status — статус подписки и остаток квот
/subscribe — оформить подписку
/report — показать последний отчёт
/chat — задать вопрос коучу по своему отчёту
/stop — выйти из текущего режима`

func (r *Router) handleStart(cid int64, from *tgbotapi.User, args string) {
	var referredBy *int64
	// диплинк t.me/<bot>?start=ref_<id> — реферальная ссылка амбассадора
	if strings.HasPrefix(args, "ref_") {
		if id, err := strconv.ParseInt(strings.TrimPrefix(args, "ref_"), 10, 64); err == nil && id != cid {
			referredBy = &id
		}
	}

	username := ""
	if from != nil {
		username = from.UserName
	}
	if err := r.Users.Upsert(context.Background(), cid, username, referredBy); err != nil {
		logger.Error("tg: не смог сохранить пользователя", logger.Fields{"chat_id": cid, "err": err})
	}

	r.send(cid, "Привет! Я — ND | Lookism, бот-аналитик внешности.\n\n"+
		"Пришлёшь два фото (анфас и профиль) — верну детальный отчёт с метриками, рейтингом и планом улучшений.\n\n"+helpText)
}

func (r *Router) handleAnalyze(cid int64) {
	ctx := context.Background()
	u, err := r.Users.Get(ctx, cid)
	if err != nil {
		r.send(cid, "Сначала нажмите /start.")
		return
	}
	if !u.Subscribed(time.Now()) {
		r.send(cid, "Анализ доступен по подписке. Оформить: /subscribe")
		return
	}
	if u.AnalysesLeft <= 0 {
		r.send(cid, "Квота анализов в этом периоде исчерпана. Новые анализы придут с продлением подписки.")
		return
	}

	sessionID, err := r.Sessions.Create(ctx, cid)
	if err != nil {
		r.SendError(cid, err)
		return
	}
	setSession(cid, sessionID)
	setMode(cid, modeAwaitFront)
	r.send(cid, "Шаг 1 из 2. Пришлите фото АНФАС: лицо прямо в камеру, хороший свет, без очков и волос на лице.")
}

func (r *Router) handleStatus(cid int64) {
	u, err := r.Users.Get(context.Background(), cid)
	if err != nil {
		r.send(cid, "Сначала нажмите /start.")
		return
	}
	if !u.Subscribed(time.Now()) {
		r.send(cid, "Подписка не активна. Оформить: /subscribe")
		return
	}
	r.send(cid, fmt.Sprintf("Подписка активна до %s.\nОсталось анализов: %d\nОсталось сообщений коучу: %d",
		u.IsActiveUntil.Format("02.01.2006"), u.AnalysesLeft, u.MessagesLeft))
}

func (r *Router) handleSubscribe(cid int64) {
	url, err := r.Payments.CreatePaymentURL(context.Background(), cid, r.ReturnURL)
	if err != nil {
		logger.Error("tg: не смог создать платёж", logger.Fields{"chat_id": cid, "err": err})
		r.send(cid, "Не получилось создать платёж. Попробуйте чуть позже.")
		return
	}
	msg := tgbotapi.NewMessage(cid, fmt.Sprintf(
		"Подписка на месяц — %d %s.\nВключено: %d анализа и %d сообщений коучу.",
		r.Payments.Price, r.Payments.Currency, payments.SubscriptionAnalyses, payments.SubscriptionMessages))
	msg.ReplyMarkup = makePayKeyboard(url)
	_, _ = r.Bot.Send(msg)
}

func (r *Router) handleReport(cid int64) {
	s, err := r.Sessions.LastDone(context.Background(), cid)
	if err != nil {
		r.send(cid, "Готовых отчётов пока нет. /analyze — запустить анализ.")
		return
	}
	if s.ReportText == "" {
		r.send(cid, "Отчёт по последнему анализу не сохранился. Попробуйте /analyze ещё раз.")
		return
	}
	r.sendLong(cid, s.ReportText)
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, _ = r.Bot.Send(msg)
}

// sendLong режет длинные отчёты под лимит Telegram (4096 символов).
func (r *Router) sendLong(chatID int64, text string) {
	const limit = 3900
	for len(text) > 0 {
		chunk := text
		if len(chunk) > limit {
			cut := strings.LastIndex(chunk[:limit], "\n")
			if cut < limit/2 {
				cut = limit
			}
			chunk = chunk[:cut]
		}
		r.send(chatID, chunk)
		text = strings.TrimPrefix(text[len(chunk):], "\n")
	}
}

func (r *Router) SendError(chatID int64, err error) {
	logger.Error("tg: ошибка", logger.Fields{"chat_id": chatID, "err": err})
	r.send(chatID, "Что-то пошло не так. Попробуйте ещё раз чуть позже.")
}
