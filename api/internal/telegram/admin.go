package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"lookism-bot/api/internal/payments"
)

func (r *Router) isAdmin(cid int64) bool {
	for _, id := range r.AdminIDs {
		if id == cid {
			return true
		}
	}
	return false
}

// handleAdminCommand — служебные команды: выдать/снять подписку, статистика.
func (r *Router) handleAdminCommand(cid int64, cmd, args string) {
	if !r.isAdmin(cid) {
		r.send(cid, "Неизвестная команда. /help — список команд.")
		return
	}
	ctx := context.Background()
	fields := strings.Fields(args)

	switch cmd {
	case "grant":
		if len(fields) == 0 {
			r.send(cid, "Использование: /grant <user_id> [days]")
			return
		}
		userID, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			r.send(cid, "user_id должен быть числом")
			return
		}
		days := payments.SubscriptionDays
		if len(fields) > 1 {
			if d, err := strconv.Atoi(fields[1]); err == nil && d > 0 {
				days = d
			}
		}
		if err := r.Users.Grant(ctx, userID, days, payments.SubscriptionAnalyses, payments.SubscriptionMessages); err != nil {
			r.send(cid, fmt.Sprintf("Не получилось: %v", err))
			return
		}
		r.send(cid, fmt.Sprintf("Выдал подписку пользователю %d на %d дн.", userID, days))
		r.send(userID, "Вам выдана подписка ND | Lookism 🎉 /analyze — запустить анализ.")

	case "revoke":
		if len(fields) == 0 {
			r.send(cid, "Использование: /revoke <user_id>")
			return
		}
		userID, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			r.send(cid, "user_id должен быть числом")
			return
		}
		if err := r.Users.Revoke(ctx, userID); err != nil {
			r.send(cid, fmt.Sprintf("Не получилось: %v", err))
			return
		}
		r.send(cid, fmt.Sprintf("Подписка пользователя %d отозвана.", userID))

	case "engine":
		// /engine deepseek|gemini — переключить LLM для этого чата (на время инцидентов)
		name := strings.ToLower(strings.TrimSpace(args))
		if name == "" {
			r.send(cid, "Текущий движок: "+r.LLM.Get(cid).Name()+"\nИспользование: /engine {deepseek|gemini}")
			return
		}
		eng, ok := r.Engines[name]
		if !ok || eng == nil {
			r.send(cid, "Неизвестный движок. Доступны: deepseek | gemini")
			return
		}
		r.LLM.Set(cid, eng)
		r.send(cid, "✅ Движок: "+eng.Name()+" ("+eng.GetModel()+")")

	case "stats":
		s, err := r.Users.Stats(ctx)
		if err != nil {
			r.send(cid, fmt.Sprintf("Не получилось: %v", err))
			return
		}
		r.send(cid, fmt.Sprintf("Пользователей: %d\nАктивных подписок: %d\nСессий сегодня: %d\nОжидают реферальной выплаты: %d",
			s.TotalUsers, s.ActiveSubs, s.SessionsToday, s.PendingPayouts))
	}
}
