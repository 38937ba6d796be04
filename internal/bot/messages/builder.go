package messages

import (
	"Cryptext/internal/core/ports"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLength is Telegram's limit for one text message.
const MaxMessageLength = 4096

// Builder helps construct complex SendMessageParams.
type Builder struct {
	params ports.SendMessageParams
	parts  []string
}

// NewBuilder creates a new message builder.
func NewBuilder(chatID int64) *Builder {
	return &Builder{
		params: ports.SendMessageParams{
			ChatID:    chatID,
			ParseMode: tgbotapi.ModeMarkdownV2, // Default to Markdown
		},
	}
}

// WithText appends already formatted MarkdownV2 text.
func (b *Builder) WithText(text string) *Builder {
	b.parts = append(b.parts, text)
	return b
}

// WithPlainText appends text, escaping it for MarkdownV2.
func (b *Builder) WithPlainText(text string) *Builder {
	b.parts = append(b.parts, Escape(text))
	return b
}

// WithCode appends text as a preformatted block.
func (b *Builder) WithCode(text string) *Builder {
	b.parts = append(b.parts, "```\n"+EscapeCode(text)+"\n```")
	return b
}

// WithParseMode overrides the default parse mode.
func (b *Builder) WithParseMode(mode string) *Builder {
	b.params.ParseMode = mode
	return b
}

// WithInlineButtons adds a set of inline buttons.
func (b *Builder) WithInlineButtons(buttons [][]ports.Button) *Builder {
	b.params.ReplyMarkup = &ports.ReplyMarkup{Buttons: buttons}
	return b
}

// Build returns the final SendMessageParams struct.
func (b *Builder) Build() ports.SendMessageParams {
	p := b.params
	p.Text = strings.Join(b.parts, "\n")
	return p
}

// Escape escapes every MarkdownV2 special character.
func Escape(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, text)
}

var codeEscaper = strings.NewReplacer("\\", "\\\\", "`", "\\`")

// EscapeCode escapes text for use inside a pre/code entity,
// where only backslash and backtick are special.
func EscapeCode(text string) string {
	return codeEscaper.Replace(text)
}

// Chunk splits text into pieces of at most size runes.
func Chunk(text string, size int) []string {
	if size <= 0 || text == "" {
		return []string{text}
	}

	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/size+1)
	for len(runes) > size {
		chunks = append(chunks, string(runes[:size]))
		runes = runes[size:]
	}
	return append(chunks, string(runes))
}
