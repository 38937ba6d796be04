package ports

import (
	"Cryptext/internal/core/domain"
	"context"
)

// --- Bot Message Structures ---

// Button represents a single button in a keyboard.
type Button struct {
	Text string
	Data string // For callbacks
	URL  string // For URL buttons
}

// ReplyMarkup represents an inline keyboard.
type ReplyMarkup struct {
	Buttons [][]Button
}

// SendMessageParams holds all possible options for sending a message.
type SendMessageParams struct {
	ChatID      int64
	Text        string
	ParseMode   string // e.g., "MarkdownV2" or "HTML"
	ReplyMarkup *ReplyMarkup
}

// EditMessageParams holds the options for editing a sent message.
type EditMessageParams struct {
	ChatID      int64
	MessageID   int
	Text        string
	ParseMode   string
	ReplyMarkup *ReplyMarkup
}

// AnswerCallbackParams answers a callback query (stops the client spinner).
type AnswerCallbackParams struct {
	CallbackQueryID string
	Text            string
	ShowAlert       bool
}

// --- Bot Client Port (Outbound) ---

// BotClientPort defines the interface for *sending* messages.
type BotClientPort interface {
	SendMessage(ctx context.Context, params SendMessageParams) error
	EditMessageText(ctx context.Context, params EditMessageParams) error
	AnswerCallbackQuery(ctx context.Context, params AnswerCallbackParams) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	SetMenuCommands(ctx context.Context) error
}

// --- Bot Handler Port (Inbound) ---

// BotUpdate represents a simplified, generic update.
type BotUpdate struct {
	MessageID       int
	ChatID          int64
	UserID          int64
	Text            string
	Command         string
	CommandArgs     string
	CallbackQueryID string
	CallbackData    *string
}

// CommandHandler defines the "plugin" interface for handling bot commands.
type CommandHandler interface {
	// Command returns the command string (e.g., "start")
	Command() string
	// Handle processes the update.
	Handle(ctx context.Context, update *BotUpdate, session *domain.Session) error
}

// CallbackHandler defines the interface for handling callback queries.
type CallbackHandler interface {
	// Prefix returns the prefix for the callback (e.g., "mode_")
	Prefix() string
	// Handle processes the callback.
	Handle(ctx context.Context, update *BotUpdate, session *domain.Session) error
}

// TextHandler handles plain text according to the session state.
type TextHandler interface {
	Handle(ctx context.Context, update *BotUpdate, session *domain.Session) error
}
