package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Кнопка оплаты подписки
func makePayKeyboard(url string) tgbotapi.InlineKeyboardMarkup {
	pay := tgbotapi.NewInlineKeyboardButtonURL("Оплатить 💳", url)
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(pay))
}
