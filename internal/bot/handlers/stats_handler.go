package handlers

import (
	"Cryptext/internal/bot"
	"Cryptext/internal/bot/messages"
	"Cryptext/internal/core/domain"
	"Cryptext/internal/core/ports"
	"Cryptext/internal/core/services"
	"context"
	"fmt"
	"time"
)

func init() {
	bot.RegisterCommand(NewStatsHandler)
}

type statsHandler struct {
	stats *services.StatsService
	bot   ports.BotClientPort
}

// NewStatsHandler creates the /stats command handler.
func NewStatsHandler(deps bot.Deps) ports.CommandHandler {
	return &statsHandler{stats: deps.Stats, bot: deps.BotClient}
}

func (h *statsHandler) Command() string {
	return "stats"
}

func (h *statsHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	if h.stats == nil {
		return h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithPlainText("Stats are disabled.").Build())
	}

	snap := h.stats.Snapshot()
	b := messages.NewBuilder(update.ChatID).
		WithText("📊 *Stats*").
		WithPlainText(fmt.Sprintf("Since %s, %d transforms.", snap.Since.Format(time.RFC3339), snap.Total()))

	for _, k := range snap.Keys() {
		b.WithPlainText(fmt.Sprintf("%s %s %s: %d", k.Direction, k.Method.Label(), k.Outcome, snap.Counts[k]))
	}
	return h.bot.SendMessage(ctx, b.Build())
}
