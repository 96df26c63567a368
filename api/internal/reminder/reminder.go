package reminder

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lookism-bot/api/internal/logger"
	"lookism-bot/api/internal/store"
)

// Reminder раз в сутки (в 12:00 по Москве) напоминает о заканчивающейся
// подписке: за 3 дня и за 1 день до конца.
type Reminder struct {
	Bot   *tgbotapi.BotAPI
	Users *store.UserRepo
}

var moscow = time.FixedZone("MSK", 3*60*60)

func (r *Reminder) Run(ctx context.Context) {
	for {
		wait := untilNextNoon(time.Now().In(moscow))
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		r.checkOnce(ctx)
	}
}

func untilNextNoon(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

func (r *Reminder) checkOnce(ctx context.Context) {
	users3, err := r.Users.ExpiringIn(ctx, 3)
	if err != nil {
		logger.Error("reminder: выборка за 3 дня", logger.Fields{"err": err})
	}
	for _, u := range users3 {
		r.notify(u.ID, "У тебя заканчивается подписка. Хочешь получить отчёт по прогрессу за месяц? /analyze")
	}

	users1, err := r.Users.ExpiringIn(ctx, 1)
	if err != nil {
		logger.Error("reminder: выборка за 1 день", logger.Fields{"err": err})
	}
	for _, u := range users1 {
		r.notify(u.ID, "Подписка заканчивается завтра. Продлить: /subscribe")
	}

	logger.Info("reminder: проверка завершена", logger.Fields{"expiring_3d": len(users3), "expiring_1d": len(users1)})
}

func (r *Reminder) notify(chatID int64, text string) {
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.Warn("reminder: не смог отправить", logger.Fields{"chat_id": chatID, "err": err})
	}
}
