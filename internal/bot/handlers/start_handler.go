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
	bot.RegisterCommand(NewStartHandler)
	bot.RegisterCommand(NewHelpHandler)
}

// startHandler is the plugin for the /start and /help commands.
type startHandler struct {
	command string
	log     zerolog.Logger
	bot     ports.BotClientPort
}

// NewStartHandler creates a new handler for the /start command.
func NewStartHandler(deps bot.Deps) ports.CommandHandler {
	return &startHandler{
		command: "start",
		log:     deps.Logger.With().Str("component", "start_handler").Logger(),
		bot:     deps.BotClient,
	}
}

// NewHelpHandler answers /help with the same overview as /start.
func NewHelpHandler(deps bot.Deps) ports.CommandHandler {
	return &startHandler{
		command: "help",
		log:     deps.Logger.With().Str("component", "help_handler").Logger(),
		bot:     deps.BotClient,
	}
}

// Command returns the command string (without the "/")
func (h *startHandler) Command() string {
	return h.command
}

// Handle sends the welcome text with the current mode and the mode toggle.
func (h *startHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	msg := messages.NewBuilder(update.ChatID).
		WithText("👋 Welcome to *Cryptext*\\!").
		WithText("").
		WithPlainText("I encrypt text with a password (AES) or encode it with Base64, and turn it back again.").
		WithText("").
		WithText("Current mode: " + modeTitle(session.Method)).
		WithText("").
		WithPlainText("/encrypt [text] - encrypt or encode text").
		WithPlainText("/decrypt [text] - decrypt or decode text").
		WithPlainText("/mode - switch between AES and Base64").
		WithPlainText("/cancel - abort the current step").
		WithPlainText("/stats - usage counters").
		WithInlineButtons(modeButtons(session.Method)).
		Build()

	h.log.Debug().Int64("chat_id", update.ChatID).Msg("Sending welcome message")
	return h.bot.SendMessage(ctx, msg)
}
