package llm

import (
	"context"
	"sync"
)

// Message — одна реплика диалога. Role: "user" или "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Engine interface {
	Name() string
	GetModel() string
	// Complete отправляет system-промпт, историю и новую реплику пользователя,
	// возвращает текст ответа модели.
	Complete(ctx context.Context, system string, history []Message, user string) (string, error)
}

type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Engine)
	}
	return m.def
}

func (m *Manager) Set(chatID int64, e Engine) {
	m.m.Store(chatID, e)
}
