package httpserver

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lookism-bot/api/internal/logger"
	"lookism-bot/api/internal/payments"
	"lookism-bot/api/internal/store"
)

// RegisterHealthz вешает /healthz на DefaultServeMux: так же его
// использует tgbotapi.ListenForWebhook, общий mux нам и нужен.
func RegisterHealthz(db *sql.DB) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// RegisterYookassaWebhook вешает приём уведомлений об оплате.
// Успешная оплата: продлеваем подписку, начисляем квоты, помечаем
// реферальную выплату амбассадору и пишем пользователю в Telegram.
func RegisterYookassaWebhook(bot *tgbotapi.BotAPI, users *store.UserRepo) {
	http.HandleFunc("/payments/yookassa", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		paid, err := payments.ParseWebhook(body)
		if err != nil {
			logger.Warn("yookassa: плохой вебхук", logger.Fields{"err": err})
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if paid == nil {
			// не payment.succeeded — подтверждаем и выходим
			w.WriteHeader(http.StatusOK)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := users.Grant(ctx, paid.UserID, payments.SubscriptionDays,
			payments.SubscriptionAnalyses, payments.SubscriptionMessages); err != nil {
			logger.Error("yookassa: не смог выдать подписку", logger.Fields{"user_id": paid.UserID, "err": err})
			// 500 — YooKassa повторит уведомление
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		logger.Info("yookassa: подписка выдана", logger.Fields{
			"user_id": paid.UserID, "payment_id": paid.PaymentID, "amount": paid.Amount,
		})

		// реферальная выплата амбассадору, если пользователь пришёл по ссылке
		if u, err := users.Get(ctx, paid.UserID); err == nil && u.ReferredByID != nil {
			if err := users.MarkReferralPayout(ctx, *u.ReferredByID); err != nil {
				logger.Error("yookassa: не смог пометить выплату", logger.Fields{"ambassador_id": *u.ReferredByID, "err": err})
			}
		}

		if bot != nil {
			msg := tgbotapi.NewMessage(paid.UserID,
				"Оплата прошла ✅ Подписка активна на 30 дней.\n/analyze — запустить анализ, /chat — вопросы коучу.")
			_, _ = bot.Send(msg)
		}
		w.WriteHeader(http.StatusOK)
	})
}
