package inbox

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vovarama1992/tg-translate-bridge/internal/ai"
)

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Message is one relayed text. Only Status and SentAt change after Append.
type Message struct {
	ID                string     `json:"id"`
	ChatID            string     `json:"telegramChatId"`
	TelegramMessageID int64      `json:"telegramMessageId"`
	TelegramUserID    int64      `json:"telegramUserId"`
	TelegramUsername  string     `json:"telegramUsername,omitempty"`
	Direction         Direction  `json:"direction"`
	OriginalText      string     `json:"originalText"`
	TranslatedText    string     `json:"translatedText,omitempty"`
	Language          ai.Lang    `json:"language"`
	CreatedAt         time.Time  `json:"createdAt"`
	SentAt            *time.Time `json:"sentAt,omitempty"`
	Status            Status     `json:"status"`
}

// Conversation is computed from the messages sharing a ChatID; it is never stored.
type Conversation struct {
	ChatID       string    `json:"chatId"`
	UserID       int64     `json:"userId"`
	Username     string    `json:"username,omitempty"`
	LastMessage  *Message  `json:"lastMessage,omitempty"`
	MessageCount int       `json:"messageCount"`
	LastActivity time.Time `json:"lastActivity"`
}

// Delivery is the platform's confirmation of a sent message.
type Delivery struct {
	MessageID   int64
	ConfirmedAt time.Time
}

// Outbound delivers to the chat platform.
type Outbound interface {
	SendMessage(ctx context.Context, chatID int64, text string) (Delivery, error)
}

// Repo is the in-process message log.
type Repo interface {
	Append(msg Message) Message
	Get(id string) (Message, bool)
	MessagesFor(chatID string) []Message
	AllConversations() []Conversation
	UpdateStatus(id string, status Status, sentAt *time.Time) (Message, bool)
	Reset()
}

// Service relays in both directions and serves read-only projections.
type Service interface {
	HandleInbound(ctx context.Context, u tgbotapi.Update) (Message, bool)
	SendReply(ctx context.Context, chatID, text string) (Message, error)
	ListConversations() []Conversation
	ListMessages(chatID string) []Message
	Translate(ctx context.Context, text string, from, to ai.Lang) (string, error)
}
