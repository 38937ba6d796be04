package handlers

import (
	"Cryptext/internal/bot/messages"
	"Cryptext/internal/core/domain"
	"Cryptext/internal/core/ports"
	"context"
)

// modeCallbackPrefix prefixes the inline mode buttons' callback data.
const modeCallbackPrefix = "mode_"

// modeButtons is the inline AES / Base64 toggle. The active method is marked.
func modeButtons(active domain.EncryptionMethod) [][]ports.Button {
	row := make([]ports.Button, 0, len(domain.Methods))
	for _, m := range domain.Methods {
		text := m.Label()
		if m == active {
			text = "● " + text
		}
		row = append(row, ports.Button{Text: text, Data: modeCallbackPrefix + string(m)})
	}
	return [][]ports.Button{row}
}

// modeTitle renders the bold "AES Mode" / "Base64 Mode" badge.
func modeTitle(m domain.EncryptionMethod) string {
	return "*" + messages.Escape(m.Label()+" Mode") + "*"
}

// sendErrorMessage is a helper to send a generic error
func sendErrorMessage(ctx context.Context, bot ports.BotClientPort, chatID int64) error {
	msgParams := messages.NewBuilder(chatID).
		WithText("An internal error occurred. Please try again later.").
		WithParseMode("").Build() // Use plain text for simple error
	return bot.SendMessage(ctx, msgParams)
}
