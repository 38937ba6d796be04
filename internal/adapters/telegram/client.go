package telegram

import (
	"Cryptext/internal/core/ports"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// botAPI is the part of *tgbotapi.BotAPI the client uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// MenuCommands is the command list shown in the Telegram menu.
var MenuCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "encrypt", Description: "Encrypt a text"},
	{Command: "decrypt", Description: "Decrypt a text"},
	{Command: "mode", Description: "Switch between AES and Base64"},
	{Command: "cancel", Description: "Abort the current operation"},
	{Command: "stats", Description: "Show transform statistics"},
	{Command: "help", Description: "How to use the bot"},
}

// tgClient implements the BotClientPort.
type tgClient struct {
	api botAPI
	log zerolog.Logger
}

// NewClient creates a new Telegram client adapter.
func NewClient(api botAPI, baseLogger *zerolog.Logger) ports.BotClientPort {
	log := baseLogger.With().Str("component", "tg_client").Logger()
	return &tgClient{api: api, log: log}
}

// SendMessage translates our params into a tgbotapi message.
func (c *tgClient) SendMessage(ctx context.Context, params ports.SendMessageParams) error {
	msg := tgbotapi.NewMessage(params.ChatID, params.Text)
	msg.ParseMode = params.ParseMode
	if params.ReplyMarkup != nil {
		msg.ReplyMarkup = buildInlineKeyboard(params.ReplyMarkup.Buttons)
	}

	if _, err := c.api.Send(msg); err != nil {
		c.log.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to send message")
		return err
	}
	return nil
}

// buildInlineKeyboard is a helper to create the inline keyboard.
func buildInlineKeyboard(buttons [][]ports.Button) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, buttonRow := range buttons {
		var row []tgbotapi.InlineKeyboardButton
		for _, btn := range buttonRow {
			if btn.URL != "" {
				row = append(row, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			} else {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
			}
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// SetMenuCommands publishes MenuCommands to Telegram.
func (c *tgClient) SetMenuCommands(ctx context.Context) error {
	config := tgbotapi.NewSetMyCommands(MenuCommands...)
	if _, err := c.api.Request(config); err != nil {
		c.log.Error().Err(err).Msg("Failed to set menu commands")
		return err
	}
	return nil
}

// EditMessageText edits an existing message (usually for inline keyboards).
func (c *tgClient) EditMessageText(ctx context.Context, params ports.EditMessageParams) error {
	msg := tgbotapi.NewEditMessageText(
		params.ChatID,
		params.MessageID,
		params.Text,
	)
	msg.ParseMode = params.ParseMode

	if params.ReplyMarkup != nil {
		inlineMarkup := buildInlineKeyboard(params.ReplyMarkup.Buttons)
		msg.ReplyMarkup = &inlineMarkup
	}

	if _, err := c.api.Send(msg); err != nil {
		c.log.Error().Err(err).
			Int64("chat_id", params.ChatID).
			Int("message_id", params.MessageID).
			Msg("Failed to edit message text")
		return err
	}
	return nil
}

// AnswerCallbackQuery sends a response to a callback query (stops the spinner)
func (c *tgClient) AnswerCallbackQuery(ctx context.Context, params ports.AnswerCallbackParams) error {
	callbackConfig := tgbotapi.NewCallback(params.CallbackQueryID, params.Text)
	callbackConfig.ShowAlert = params.ShowAlert

	if _, err := c.api.Request(callbackConfig); err != nil {
		c.log.Error().Err(err).
			Str("callback_query_id", params.CallbackQueryID).
			Msg("Failed to answer callback query")
		return err
	}
	return nil
}

// DeleteMessage removes a message. Telegram answers with a bare bool,
// so this goes through Request rather than Send.
func (c *tgClient) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		c.log.Warn().Err(err).
			Int64("chat_id", chatID).
			Int("message_id", messageID).
			Msg("Failed to delete message")
		return err
	}
	return nil
}
