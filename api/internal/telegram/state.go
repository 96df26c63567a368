package telegram

import (
	"sync"

	"lookism-bot/api/internal/llm"
)

// Режимы диалога.
const (
	modeIdle         = ""
	modeAwaitFront   = "await_front"
	modeAwaitProfile = "await_profile"
	modeChat         = "chat"
)

const maxChatHistory = 20

var chatMode sync.Map // chatID -> string

func setMode(chatID int64, mode string) { chatMode.Store(chatID, mode) }
func getMode(chatID int64) string {
	if v, ok := chatMode.Load(chatID); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return modeIdle
}
func clearMode(chatID int64) { chatMode.Delete(chatID) }

var activeSession sync.Map // chatID -> int64 (id сессии в процессе сбора фото)

func setSession(chatID, sessionID int64) { activeSession.Store(chatID, sessionID) }
func getSession(chatID int64) (int64, bool) {
	if v, ok := activeSession.Load(chatID); ok {
		return v.(int64), true
	}
	return 0, false
}
func clearSession(chatID int64) { activeSession.Delete(chatID) }

// История чата с коучем. Держим в памяти: после рестарта контекст
// начинается заново, это приемлемо.
var chatHistory sync.Map // chatID -> []llm.Message

// storeHistory дописывает пару реплик к переданной истории и обрезает хвост.
func storeHistory(chatID int64, h []llm.Message, user, assistant string) {
	h = append(h,
		llm.Message{Role: "user", Content: user},
		llm.Message{Role: "assistant", Content: assistant},
	)
	if len(h) > maxChatHistory {
		h = h[len(h)-maxChatHistory:]
	}
	chatHistory.Store(chatID, h)
}

func getHistory(chatID int64) []llm.Message {
	if v, ok := chatHistory.Load(chatID); ok {
		return v.([]llm.Message)
	}
	return nil
}

func clearHistory(chatID int64) { chatHistory.Delete(chatID) }
