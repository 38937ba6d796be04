package messages

import (
	"Cryptext/internal/core/ports"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	buttons := [][]ports.Button{{{Text: "AES", Data: "mode_AES"}}}

	msg := NewBuilder(42).
		WithText("*Result*").
		WithPlainText("1.5 + 2 = 3.5!").
		WithCode("a`b\\c").
		WithInlineButtons(buttons).
		Build()

	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "MarkdownV2", msg.ParseMode)
	assert.Equal(t, "*Result*\n1\\.5 \\+ 2 \\= 3\\.5\\!\n```\na\\`b\\\\c\n```", msg.Text)
	require.NotNil(t, msg.ReplyMarkup)
	assert.Equal(t, buttons, msg.ReplyMarkup.Buttons)
}

func TestBuilder_WithParseMode(t *testing.T) {
	msg := NewBuilder(1).WithText("plain").WithParseMode("").Build()
	assert.Empty(t, msg.ParseMode)
	assert.Nil(t, msg.ReplyMarkup)
}

func TestChunk(t *testing.T) {
	assert.Equal(t, []string{""}, Chunk("", 10))
	assert.Equal(t, []string{"abc"}, Chunk("abc", 10))
	assert.Equal(t, []string{"ab", "cd", "e"}, Chunk("abcde", 2))

	text := strings.Repeat("ü👋", 5)
	chunks := Chunk(text, 3)
	require.Len(t, chunks, 4)
	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunks must not split runes")
	}
}
