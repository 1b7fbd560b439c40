package models

import (
	"time"
)

// Константы для типов сообщений
const (
	MessageTypeUser = "user"
	MessageTypeBot  = "bot"
)

// ChatHistory — одна пара «вопрос пользователя + ответ AI» в базе данных
type ChatHistory struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	SessionID   string    `gorm:"column:session_id;index" json:"session_id"`
	UserMessage string    `gorm:"column:user_message" json:"user_message"`
	AIResponse  string    `gorm:"column:ai_response" json:"ai_response"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ChatHistory) TableName() string {
	return "chat_history"
}

// Message — одна реплика в чате (в памяти, не модель БД).
// Attachments заполняется только для пользовательских сообщений,
// Read — только для ответов бота.
type Message struct {
	Type        string       `json:"type"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Read        bool         `json:"read,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// ChatSession — сводка по одной сессии для списка истории
type ChatSession struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Preview   string    `json:"preview"`
}
