package main

import (
	"Cryptext/internal/adapters/eventbus"
	"Cryptext/internal/adapters/memory"
	"Cryptext/internal/adapters/security"
	"Cryptext/internal/adapters/telegram"
	"Cryptext/internal/bot"
	"Cryptext/internal/core/services"
	"Cryptext/internal/shared/config"
	"Cryptext/internal/shared/logger"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "Cryptext/internal/bot/handlers" // registers handlers via init()

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadBot()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	baseLogger := logger.New(cfg.IsDev(), cfg.LogLevel)
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("default_method", string(cfg.DefaultMethod)).
		Dur("session_ttl", cfg.SessionTTL).
		Int("kdf_iterations", cfg.KDFIterations).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Core services
	engine := security.NewTransformEngine(&baseLogger, security.WithKDFIterations(cfg.KDFIterations))
	bus := eventbus.NewInMemoryEventBus(&baseLogger)
	stats := services.NewStatsService(bus, &baseLogger)

	sessions := memory.NewSessionStore(cfg.DefaultMethod, cfg.SessionTTL, &baseLogger)
	go sessions.RunSweeper(ctx, cfg.SessionTTL/2)

	// 4. Telegram
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to connect to Telegram")
	}
	api.Debug = cfg.IsDev()
	baseLogger.Info().Str("username", api.Self.UserName).Msg("Bot API connected")

	client := telegram.NewClient(api, &baseLogger)
	router := bot.NewRouter(sessions, client, &baseLogger)
	bot.RegisterAllHandlers(router, bot.Deps{
		Cfg:       cfg,
		Engine:    engine,
		Sessions:  sessions,
		Bus:       bus,
		Stats:     stats,
		BotClient: client,
		Logger:    &baseLogger,
	})

	if err := client.SetMenuCommands(ctx); err != nil {
		baseLogger.Warn().Err(err).Msg("Menu commands not set (continuing anyway)")
	}

	// 5. Run until SIGINT/SIGTERM
	server := telegram.NewBotServer(api, router, &cfg.Bot, &baseLogger)
	if err := server.Start(ctx); err != nil {
		baseLogger.Fatal().Err(err).Msg("Bot server failed")
	}

	bus.Wait()
	baseLogger.Info().Int("transforms", stats.Snapshot().Total()).Msg("Shutdown complete")
}
