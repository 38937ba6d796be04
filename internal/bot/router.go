package bot

import (
	"Cryptext/internal/bot/messages"
	"Cryptext/internal/core/ports"
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Router is the "Bot Facade." It holds all "plugins"
// and routes incoming updates to the correct handler.
type Router struct {
	log              zerolog.Logger
	sessions         ports.SessionStore
	botClient        ports.BotClientPort
	commandHandlers  map[string]ports.CommandHandler
	callbackHandlers map[string]ports.CallbackHandler
	textHandler      ports.TextHandler
}

// NewRouter creates a new bot facade/router.
func NewRouter(
	sessions ports.SessionStore,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) *Router {
	return &Router{
		log:              baseLogger.With().Str("component", "tg_router").Logger(),
		sessions:         sessions,
		botClient:        botClient,
		commandHandlers:  make(map[string]ports.CommandHandler),
		callbackHandlers: make(map[string]ports.CallbackHandler),
	}
}

// RegisterCommandHandler adds a "plugin" to the router.
func (r *Router) RegisterCommandHandler(handler ports.CommandHandler) {
	cmd := handler.Command()
	r.commandHandlers[cmd] = handler
	r.log.Info().Str("command", cmd).Msg("Registered new command handler")
}

// RegisterCallbackHandler adds a "plugin" to the router.
func (r *Router) RegisterCallbackHandler(handler ports.CallbackHandler) {
	prefix := handler.Prefix()
	r.callbackHandlers[prefix] = handler
	r.log.Info().Str("prefix", prefix).Msg("Registered new callback handler")
}

// SetTextHandler registers the single, global text handler
func (r *Router) SetTextHandler(handler ports.TextHandler) {
	r.textHandler = handler
}

// HandleUpdate is the main entry point for a new update from Telegram.
func (r *Router) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	// 1. Convert to our generic BotUpdate
	botUpdate, isSupported := r.parseUpdate(update)
	if !isSupported {
		r.log.Debug().Int("update_id", update.UpdateID).Msg("Received unsupported update type")
		return
	}

	// 2. Add logger context
	ctxLogger := r.log.With().
		Int64("user_id", botUpdate.UserID).
		Int64("chat_id", botUpdate.ChatID).
		Logger()
	ctx = ctxLogger.WithContext(ctx)

	// 3. Load the chat session; every handler needs the selected method.
	session, err := r.sessions.Get(ctx, botUpdate.ChatID)
	if err != nil {
		ctxLogger.Error().Err(err).Msg("Failed to load session")
		r.reply(ctx, botUpdate.ChatID, "An internal error occurred.")
		return
	}

	// 4. Route commands first
	if botUpdate.Command != "" {
		if handler, ok := r.commandHandlers[botUpdate.Command]; ok {
			ctxLogger.Info().Str("handler", botUpdate.Command).Msg("Routing to command handler")
			if err := handler.Handle(ctx, botUpdate, session); err != nil {
				ctxLogger.Error().Err(err).Msg("Command handler failed")
			}
			return
		}

		// While a flow waits for input, "/s3cret" is a password, not a command.
		if !session.AwaitingInput() || r.textHandler == nil {
			ctxLogger.Info().Str("command", botUpdate.Command).Msg("Unknown command")
			r.reply(ctx, botUpdate.ChatID, "Unknown command. Try /help.")
			return
		}
		botUpdate.Command, botUpdate.CommandArgs = "", ""
	}

	// 5. Route callbacks next
	if botUpdate.CallbackData != nil {
		for prefix, handler := range r.callbackHandlers {
			if strings.HasPrefix(*botUpdate.CallbackData, prefix) {
				ctxLogger.Info().Str("handler", prefix).Msg("Routing to callback handler")
				if err := handler.Handle(ctx, botUpdate, session); err != nil {
					ctxLogger.Error().Err(err).Msg("Callback handler failed")
				}
				return
			}
		}
		ctxLogger.Warn().Str("data", *botUpdate.CallbackData).Msg("No callback handler found")
		return
	}

	// 6. Everything else is text for the state machine.
	if botUpdate.Text == "" {
		r.reply(ctx, botUpdate.ChatID, "I can only work with text messages.")
		return
	}

	if r.textHandler != nil {
		ctxLogger.Info().Str("state", string(session.State)).Msg("Routing to text handler")
		if err := r.textHandler.Handle(ctx, botUpdate, session); err != nil {
			ctxLogger.Error().Err(err).Msg("Text handler failed")
		}
		return
	}

	ctxLogger.Info().Msg("Received unhandled text message (no handler)")
}

func (r *Router) reply(ctx context.Context, chatID int64, text string) {
	msg := messages.NewBuilder(chatID).WithPlainText(text).Build()
	if err := r.botClient.SendMessage(ctx, msg); err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

// parseUpdate converts a tgbotapi.Update into our internal, simplified struct.
func (r *Router) parseUpdate(update *tgbotapi.Update) (*ports.BotUpdate, bool) {
	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		if cb.Message == nil || cb.From == nil {
			return nil, false
		}
		return &ports.BotUpdate{
			MessageID:       cb.Message.MessageID,
			ChatID:          cb.Message.Chat.ID,
			UserID:          cb.From.ID,
			CallbackQueryID: cb.ID,
			CallbackData:    &cb.Data,
		}, true
	}

	if update.Message != nil {
		msg := update.Message
		if msg.Chat == nil {
			return nil, false
		}
		var userID int64
		if msg.From != nil {
			userID = msg.From.ID
		}

		return &ports.BotUpdate{
			MessageID:   msg.MessageID,
			ChatID:      msg.Chat.ID,
			UserID:      userID,
			Text:        msg.Text,
			Command:     msg.Command(),
			CommandArgs: msg.CommandArguments(),
		}, true
	}

	return nil, false // Unsupported update
}
