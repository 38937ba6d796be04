package handlers

import (
	"Cryptext/internal/bot"
	"Cryptext/internal/bot/messages"
	"Cryptext/internal/core/domain"
	"Cryptext/internal/core/ports"
	"Cryptext/internal/core/services"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterCommand(NewEncryptHandler)
	bot.RegisterCommand(NewDecryptHandler)
	bot.RegisterText(NewTransformTextHandler)
}

// User-facing texts, kept generic on purpose: a failed decrypt never says why.
const (
	textNothingToEncrypt = "Nothing to encrypt."
	textNothingToDecrypt = "Nothing to decrypt yet. Send the encrypted text first."
	textPasswordRequired = "Password is required for AES decryption."
	textDecryptFailed    = "Decryption failed. Check your password or the encrypted text."
	textIdle             = "Use /encrypt or /decrypt to get started, or /mode to switch method."
	textResultSplit      = "The result was sent in %d parts. Join them in order before decrypting."
	textResultTooLong    = "The result was sent in %d parts and is longer than the %d characters Telegram accepts in one message, " +
		"so it cannot be decrypted here. Use the cryptext command-line tool for texts this long."
)

// resultChunkSize leaves room for the header and code fences.
const resultChunkSize = messages.MaxMessageLength - 256

// transformFlow drives the encrypt/decrypt conversation of one chat.
// The method always comes from the session and is passed to the engine explicitly.
type transformFlow struct {
	log      zerolog.Logger
	engine   ports.TransformPort
	sessions ports.SessionStore
	bus      ports.EventBus
	bot      ports.BotClientPort
}

func newTransformFlow(deps bot.Deps, component string) *transformFlow {
	return &transformFlow{
		log:      deps.Logger.With().Str("component", component).Logger(),
		engine:   deps.Engine,
		sessions: deps.Sessions,
		bus:      deps.Bus,
		bot:      deps.BotClient,
	}
}

// --- /encrypt ---

type encryptHandler struct{ *transformFlow }

// NewEncryptHandler creates the /encrypt command handler.
func NewEncryptHandler(deps bot.Deps) ports.CommandHandler {
	return &encryptHandler{newTransformFlow(deps, "encrypt_handler")}
}

func (h *encryptHandler) Command() string { return "encrypt" }

func (h *encryptHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	return h.startEncrypt(ctx, update.ChatID, session, update.CommandArgs)
}

// --- /decrypt ---

type decryptHandler struct{ *transformFlow }

// NewDecryptHandler creates the /decrypt command handler.
func NewDecryptHandler(deps bot.Deps) ports.CommandHandler {
	return &decryptHandler{newTransformFlow(deps, "decrypt_handler")}
}

func (h *decryptHandler) Command() string { return "decrypt" }

func (h *decryptHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	return h.startDecrypt(ctx, update.ChatID, session, strings.TrimSpace(update.CommandArgs))
}

// --- plain text ---

type transformTextHandler struct{ *transformFlow }

// NewTransformTextHandler creates the state machine for plain text replies.
func NewTransformTextHandler(deps bot.Deps) ports.TextHandler {
	return &transformTextHandler{newTransformFlow(deps, "transform_text_handler")}
}

// Handle routes the text based on the session state.
func (h *transformTextHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	switch session.State {
	case domain.StateAwaitingEncryptText:
		return h.startEncrypt(ctx, update.ChatID, session, update.Text)
	case domain.StateAwaitingEncryptPassword:
		h.forgetPassword(ctx, update)
		return h.finishEncrypt(ctx, update.ChatID, session, session.PendingText, update.Text)
	case domain.StateAwaitingDecryptText:
		return h.startDecrypt(ctx, update.ChatID, session, strings.TrimSpace(update.Text))
	case domain.StateAwaitingDecryptPassword:
		h.forgetPassword(ctx, update)
		return h.finishDecrypt(ctx, update.ChatID, session, session.PendingText, update.Text)
	default:
		msg := messages.NewBuilder(update.ChatID).
			WithPlainText(textIdle).
			WithInlineButtons(modeButtons(session.Method)).
			Build()
		return h.bot.SendMessage(ctx, msg)
	}
}

// --- flow steps ---

func (f *transformFlow) startEncrypt(ctx context.Context, chatID int64, session *domain.Session, text string) error {
	switch {
	case text == "":
		return f.await(ctx, chatID, session, domain.StateAwaitingEncryptText, "",
			"Send me the text to encrypt.")
	case session.Method.RequiresPassword():
		return f.await(ctx, chatID, session, domain.StateAwaitingEncryptPassword, text,
			"Now send the password. I will delete your message right after.")
	default:
		return f.finishEncrypt(ctx, chatID, session, text, "")
	}
}

func (f *transformFlow) startDecrypt(ctx context.Context, chatID int64, session *domain.Session, input string) error {
	switch {
	case input == "":
		return f.await(ctx, chatID, session, domain.StateAwaitingDecryptText, "",
			"Send me the text to decrypt.")
	case session.Method.RequiresPassword():
		return f.await(ctx, chatID, session, domain.StateAwaitingDecryptPassword, input,
			"Now send the password. I will delete your message right after.")
	default:
		return f.finishDecrypt(ctx, chatID, session, input, "")
	}
}

func (f *transformFlow) await(ctx context.Context, chatID int64, session *domain.Session, state domain.SessionState, pending, prompt string) error {
	session.State = state
	session.PendingText = pending
	if err := f.sessions.Save(ctx, session); err != nil {
		f.log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to save session")
		return sendErrorMessage(ctx, f.bot, chatID)
	}

	msg := messages.NewBuilder(chatID).
		WithText(modeTitle(session.Method)).
		WithPlainText(prompt + " Send /cancel to abort.").
		Build()
	return f.bot.SendMessage(ctx, msg)
}

func (f *transformFlow) finishEncrypt(ctx context.Context, chatID int64, session *domain.Session, text, password string) error {
	method := session.Method
	f.done(ctx, session)

	out := f.engine.Encode(text, password, method)

	outcome := domain.OutcomeSucceeded
	if out == "" {
		outcome = domain.OutcomeEmpty
	}
	f.publish(ctx, domain.NewTransformEvent(domain.DirectionEncode, method, outcome, len(text), len(out)))

	if out == "" {
		return f.bot.SendMessage(ctx, messages.NewBuilder(chatID).WithPlainText(textNothingToEncrypt).Build())
	}
	header := "🔒 " + modeTitle(method) + messages.Escape(" result:")
	if method == domain.MethodBase64 {
		header = "🔤 " + modeTitle(method) + messages.Escape(" result:")
	}
	parts, err := f.sendResult(ctx, chatID, header, out)
	if err != nil {
		return err
	}
	return f.splitNotice(ctx, chatID, parts, len(out))
}

// splitNotice tells the user how to bring a multi-part result back, or that
// it cannot come back through the bot at all.
func (f *transformFlow) splitNotice(ctx context.Context, chatID int64, parts, outLen int) error {
	if parts <= 1 {
		return nil
	}
	text := fmt.Sprintf(textResultSplit, parts)
	if outLen > messages.MaxMessageLength {
		text = fmt.Sprintf(textResultTooLong, parts, messages.MaxMessageLength)
	}
	return f.bot.SendMessage(ctx, messages.NewBuilder(chatID).WithPlainText("ℹ️ "+text).Build())
}

func (f *transformFlow) finishDecrypt(ctx context.Context, chatID int64, session *domain.Session, input, password string) error {
	method := session.Method
	f.done(ctx, session)

	// The engine treats a missing password as a wrong one; the shell says so explicitly.
	if method.RequiresPassword() && password == "" && input != "" {
		f.publish(ctx, domain.NewTransformEvent(domain.DirectionDecode, method, domain.OutcomeFailed, len(input), 0))
		return f.bot.SendMessage(ctx, messages.NewBuilder(chatID).WithText("❌ "+messages.Escape(textPasswordRequired)).Build())
	}

	text, err := f.engine.Decode(input, password, method)
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		f.publish(ctx, domain.NewTransformEvent(domain.DirectionDecode, method, domain.OutcomeEmpty, 0, 0))
		return f.bot.SendMessage(ctx, messages.NewBuilder(chatID).WithPlainText(textNothingToDecrypt).Build())
	case err != nil:
		f.publish(ctx, domain.NewTransformEvent(domain.DirectionDecode, method, domain.OutcomeFailed, len(input), 0))
		return f.bot.SendMessage(ctx, messages.NewBuilder(chatID).WithText("❌ "+messages.Escape(textDecryptFailed)).Build())
	}

	f.publish(ctx, domain.NewTransformEvent(domain.DirectionDecode, method, domain.OutcomeSucceeded, len(input), len(text)))
	if text == "" {
		return f.bot.SendMessage(ctx, messages.NewBuilder(chatID).WithPlainText("✅ Decrypted an empty message.").Build())
	}
	_, err = f.sendResult(ctx, chatID, "✅ "+modeTitle(method)+messages.Escape(" decrypted:"), text)
	return err
}

// done returns the session to idle once a flow has everything it needs.
func (f *transformFlow) done(ctx context.Context, session *domain.Session) {
	if session.State == domain.StateNone && session.PendingText == "" {
		return
	}
	session.Reset()
	if err := f.sessions.Save(ctx, session); err != nil {
		f.log.Error().Err(err).Int64("chat_id", session.ChatID).Msg("Failed to reset session")
	}
}

// sendResult sends the output as one or more preformatted blocks and
// returns how many messages it took. Telegram rejects text that is not
// UTF-8, so invalid bytes are shown as U+FFFD.
func (f *transformFlow) sendResult(ctx context.Context, chatID int64, header, body string) (int, error) {
	chunks := messages.Chunk(strings.ToValidUTF8(body, "\uFFFD"), resultChunkSize)
	for i, chunk := range chunks {
		b := messages.NewBuilder(chatID)
		if i == 0 {
			b.WithText(header)
		}
		if err := f.bot.SendMessage(ctx, b.WithCode(chunk).Build()); err != nil {
			return i, err
		}
	}
	return len(chunks), nil
}

// forgetPassword deletes the user's password message. Best effort: the bot
// may lack the right to delete in group chats.
func (f *transformFlow) forgetPassword(ctx context.Context, update *ports.BotUpdate) {
	if err := f.bot.DeleteMessage(ctx, update.ChatID, update.MessageID); err != nil {
		f.log.Warn().Err(err).Int64("chat_id", update.ChatID).Msg("Could not delete password message")
	}
}

func (f *transformFlow) publish(ctx context.Context, ev domain.TransformEvent) {
	if f.bus == nil {
		return
	}
	if err := services.PublishTransform(ctx, f.bus, ev); err != nil {
		f.log.Warn().Err(err).Str("topic", ev.Topic()).Msg("Failed to publish transform event")
	}
}
