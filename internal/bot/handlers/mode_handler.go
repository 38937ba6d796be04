package handlers

import (
	"Cryptext/internal/bot"
	"Cryptext/internal/bot/messages"
	"Cryptext/internal/core/domain"
	"Cryptext/internal/core/ports"
	"context"
	"strings"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterCommand(NewModeHandler)
	bot.RegisterCallback(NewModeCallbackHandler)
}

// modeHandler switches the chat between AES and Base64.
// It serves both the /mode command and the inline toggle buttons.
type modeHandler struct {
	log      zerolog.Logger
	sessions ports.SessionStore
	bot      ports.BotClientPort
}

func newModeHandler(deps bot.Deps) *modeHandler {
	return &modeHandler{
		log:      deps.Logger.With().Str("component", "mode_handler").Logger(),
		sessions: deps.Sessions,
		bot:      deps.BotClient,
	}
}

// NewModeHandler creates the /mode command handler.
func NewModeHandler(deps bot.Deps) ports.CommandHandler {
	return newModeHandler(deps)
}

// NewModeCallbackHandler creates the handler for "mode_" callbacks.
func NewModeCallbackHandler(deps bot.Deps) ports.CallbackHandler {
	return &modeCallback{newModeHandler(deps)}
}

func (h *modeHandler) Command() string {
	return "mode"
}

// Handle shows the toggle, or switches directly with "/mode base64".
func (h *modeHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	if arg := strings.TrimSpace(update.CommandArgs); arg != "" {
		method, err := domain.ParseMethod(arg)
		if err != nil {
			msg := messages.NewBuilder(update.ChatID).
				WithPlainText("Unknown mode. Use AES or Base64.").
				WithInlineButtons(modeButtons(session.Method)).
				Build()
			return h.bot.SendMessage(ctx, msg)
		}
		if err := h.switchTo(ctx, session, method); err != nil {
			return sendErrorMessage(ctx, h.bot, update.ChatID)
		}
		return h.bot.SendMessage(ctx, h.confirmation(update.ChatID, method))
	}

	msg := messages.NewBuilder(update.ChatID).
		WithText("Current mode: " + modeTitle(session.Method)).
		WithPlainText("Choose a method:").
		WithInlineButtons(modeButtons(session.Method)).
		Build()
	return h.bot.SendMessage(ctx, msg)
}

// switchTo stores the new method. Any half-finished flow is dropped because
// its pending text was meant for the old method.
func (h *modeHandler) switchTo(ctx context.Context, session *domain.Session, method domain.EncryptionMethod) error {
	from := session.Method
	session.Method = method
	session.Reset()

	if err := h.sessions.Save(ctx, session); err != nil {
		h.log.Error().Err(err).Int64("chat_id", session.ChatID).Msg("Failed to save session after mode switch")
		return err
	}
	h.log.Info().
		Int64("chat_id", session.ChatID).
		Str("from", string(from)).
		Str("to", string(method)).
		Msg("Mode switched")
	return nil
}

func (h *modeHandler) confirmation(chatID int64, method domain.EncryptionMethod) ports.SendMessageParams {
	b := messages.NewBuilder(chatID).WithText("✅ " + modeTitle(method))
	if method.RequiresPassword() {
		b.WithPlainText("Text is encrypted with a password. You will need the same password to decrypt it.")
	} else {
		b.WithPlainText("Text is only encoded, not encrypted. No password is needed and anyone can decode it.")
	}
	return b.WithInlineButtons(modeButtons(method)).Build()
}

// modeCallback adapts modeHandler to the callback port.
type modeCallback struct {
	*modeHandler
}

func (h *modeCallback) Prefix() string {
	return modeCallbackPrefix
}

// Handle processes "mode_AES" / "mode_BASE64".
func (h *modeCallback) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	method, err := domain.ParseMethod(strings.TrimPrefix(*update.CallbackData, modeCallbackPrefix))
	if err != nil {
		h.log.Warn().Str("data", *update.CallbackData).Msg("Invalid mode callback")
		return h.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: update.CallbackQueryID,
			Text:            "Unknown mode",
		})
	}

	// 1. Answer the callback to stop the spinner
	if err := h.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: update.CallbackQueryID,
		Text:            method.Label() + " Mode",
	}); err != nil {
		h.log.Warn().Err(err).Msg("Failed to answer callback query")
	}

	if method == session.Method {
		return nil
	}

	// 2. Store the new method
	if err := h.switchTo(ctx, session, method); err != nil {
		return sendErrorMessage(ctx, h.bot, update.ChatID)
	}

	// 3. Edit the original message so the toggle shows the new state
	confirm := h.confirmation(update.ChatID, method)
	return h.bot.EditMessageText(ctx, ports.EditMessageParams{
		ChatID:      update.ChatID,
		MessageID:   update.MessageID,
		Text:        confirm.Text,
		ParseMode:   confirm.ParseMode,
		ReplyMarkup: confirm.ReplyMarkup,
	})
}
