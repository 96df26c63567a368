package telegram

import (
	"context"
	"fmt"
	"time"

	"lookism-bot/api/internal/llm"
	"lookism-bot/api/internal/logger"
	"lookism-bot/api/internal/util"
)

// handleChatStart включает режим вопросов коучу поверх последнего отчёта.
func (r *Router) handleChatStart(cid int64) {
	ctx := context.Background()
	u, err := r.Users.Get(ctx, cid)
	if err != nil {
		r.send(cid, "Сначала нажмите /start.")
		return
	}
	if !u.Subscribed(time.Now()) {
		r.send(cid, "Чат с коучем доступен по подписке. Оформить: /subscribe")
		return
	}
	if u.MessagesLeft <= 0 {
		r.send(cid, "Квота сообщений в этом периоде исчерпана. Новые сообщения придут с продлением подписки.")
		return
	}
	if _, err := r.Sessions.LastDone(ctx, cid); err != nil {
		r.send(cid, "Чат работает поверх готового отчёта. Сначала пройдите анализ: /analyze")
		return
	}

	setMode(cid, modeChat)
	clearHistory(cid)
	r.send(cid, fmt.Sprintf("Режим коуча включён. Осталось сообщений: %d.\nЗадавайте вопрос по своему отчёту. Выход — /stop.", u.MessagesLeft))
}

func (r *Router) handleChatMessage(cid int64, text string) {
	ctx := context.Background()

	ok, err := r.Users.DecrementMessages(ctx, cid)
	if err != nil {
		r.SendError(cid, err)
		return
	}
	if !ok {
		clearMode(cid)
		r.send(cid, "Квота сообщений исчерпана. Новые сообщения придут с продлением подписки.")
		return
	}

	history := getHistory(cid)
	if len(history) == 0 {
		// первый вопрос — подкладываем отчёт как контекст
		if s, err := r.Sessions.LastDone(ctx, cid); err == nil && s.ReportText != "" {
			history = []llm.Message{
				{Role: "user", Content: "Мой отчёт по анализу внешности:\n\n" + s.ReportText},
				{Role: "assistant", Content: "Отчёт изучил. Задавайте вопросы."},
			}
		}
	}

	eng := r.LLM.Get(cid)
	answer, err := eng.Complete(ctx, llm.ChatSystemPrompt, history, text)
	if err != nil {
		logger.Error("tg: LLM не ответила в чате", logger.Fields{"chat_id": cid, "err": err})
		r.send(cid, "Коуч сейчас недоступен, попробуйте через пару минут. Сообщение из квоты не пропадёт — задайте вопрос ещё раз.")
		// возвращаем списанное сообщение
		_ = r.refundMessage(ctx, cid)
		return
	}

	answer = util.SanitizeReport(answer)
	storeHistory(cid, history, text, answer)
	r.sendLong(cid, answer)
}

func (r *Router) refundMessage(ctx context.Context, cid int64) error {
	const q = `update users set messages_left = messages_left + 1 where id = $1`
	_, err := r.Users.DB.ExecContext(ctx, q, cid)
	return err
}
