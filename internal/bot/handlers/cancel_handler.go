package handlers

import (
	"Cryptext/internal/bot"
	"Cryptext/internal/bot/messages"
	"Cryptext/internal/core/domain"
	"Cryptext/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterCommand(NewCancelHandler)
}

type cancelHandler struct {
	log      zerolog.Logger
	sessions ports.SessionStore
	bot      ports.BotClientPort
}

// NewCancelHandler creates the /cancel command handler.
func NewCancelHandler(deps bot.Deps) ports.CommandHandler {
	return &cancelHandler{
		log:      deps.Logger.With().Str("component", "cancel_handler").Logger(),
		sessions: deps.Sessions,
		bot:      deps.BotClient,
	}
}

func (h *cancelHandler) Command() string {
	return "cancel"
}

// Handle drops the pending text and returns the chat to idle.
func (h *cancelHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	if session.State == domain.StateNone {
		return h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithPlainText("Nothing to cancel.").Build())
	}

	if err := h.sessions.Reset(ctx, update.ChatID); err != nil {
		h.log.Error().Err(err).Int64("chat_id", update.ChatID).Msg("Failed to reset session")
		return sendErrorMessage(ctx, h.bot, update.ChatID)
	}

	h.log.Info().Int64("chat_id", update.ChatID).Str("state", string(session.State)).Msg("Flow cancelled")
	return h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithPlainText("Cancelled.").Build())
}
