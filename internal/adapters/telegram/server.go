package telegram

import (
	"Cryptext/internal/shared/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// UpdateHandler consumes updates coming from Telegram.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

// BotServer is responsible for running the bot (polling or webhook)
type BotServer struct {
	api     *tgbotapi.BotAPI
	handler UpdateHandler
	cfg     *config.BotConfig
	log     zerolog.Logger
}

// NewBotServer creates a new server instance
func NewBotServer(
	api *tgbotapi.BotAPI,
	handler UpdateHandler,
	cfg *config.BotConfig,
	baseLogger *zerolog.Logger,
) *BotServer {
	return &BotServer{
		api:     api,
		handler: handler,
		cfg:     cfg,
		log:     baseLogger.With().Str("component", "bot_server").Logger(),
	}
}

// Start begins the bot server based on the config mode.
// It blocks until ctx is cancelled.
func (s *BotServer) Start(ctx context.Context) error {
	s.log.Info().Str("mode", s.cfg.Mode).Msg("Starting bot server...")

	switch s.cfg.Mode {
	case "polling":
		return s.startPolling(ctx)
	case "webhook":
		return s.startWebhook(ctx)
	default:
		return fmt.Errorf("unknown bot mode: %s", s.cfg.Mode)
	}
}

// startPolling starts the bot in long polling mode with a worker pool
func (s *BotServer) startPolling(ctx context.Context) error {
	s.log.Info().Int("workers", s.cfg.Polling.WorkerPoolSize).Msg("Starting bot in POLLING mode")

	// A webhook left over from an earlier deploy would block getUpdates.
	if _, err := s.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: false}); err != nil {
		s.log.Warn().Err(err).Msg("Failed to delete webhook (continuing anyway)")
	} else {
		s.log.Info().Msg("Webhook deleted successfully")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.api.GetUpdatesChan(u)

	s.dispatch(ctx, updates)
	s.api.StopReceivingUpdates()
	s.log.Info().Msg("Polling stopped gracefully")
	return nil
}

// startWebhook starts the bot in webhook mode (for production)
func (s *BotServer) startWebhook(ctx context.Context) error {
	s.log.Info().
		Int("port", s.cfg.Webhook.ListenPort).
		Int("workers", s.cfg.Polling.WorkerPoolSize). // We reuse the worker pool size
		Msg("Starting bot in WEBHOOK mode")

	path := "/webhook/" + s.api.Token
	wh, err := tgbotapi.NewWebhook(s.cfg.Webhook.URL + path)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create webhook config")
		return err
	}
	if _, err := s.api.Request(wh); err != nil {
		s.log.Error().Err(err).Msg("Failed to set webhook")
		return err
	}

	info, err := s.api.GetWebhookInfo()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get webhook info")
		return err
	}
	if info.LastErrorDate != 0 {
		s.log.Error().
			Str("error_message", info.LastErrorMessage).
			Msg("Telegram webhook has a last error")
	} else {
		s.log.Info().Msg("Webhook set successfully, no last error")
	}

	updates := make(chan tgbotapi.Update, s.cfg.Polling.WorkerPoolSize*4)
	mux := http.NewServeMux()
	mux.Handle(path, webhookHandler(s.api, updates, ctx.Done(), s.log))

	// TLS is terminated by the reverse proxy in front of us.
	listenAddr := fmt.Sprintf("127.0.0.1:%d", s.cfg.Webhook.ListenPort)
	s.log.Info().Str("addr", listenAddr).Msg("Starting HTTP server for webhook")

	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("Webhook HTTP server failed")
		}
	}()

	s.dispatch(ctx, updates)

	s.log.Info().Msg("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	s.log.Info().Msg("Webhook server stopped gracefully")
	return nil
}

// maxWebhookBody caps one webhook request. Real updates are a few KB.
const maxWebhookBody = 1 << 20

// updateParser is satisfied by *tgbotapi.BotAPI.
type updateParser interface {
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// webhookHandler hands Telegram's POST bodies to the updates channel.
// Once done is closed, pending requests are refused instead of holding
// up the HTTP server's shutdown.
func webhookHandler(parser updateParser, updates chan<- tgbotapi.Update, done <-chan struct{}, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)

		update, err := parser.HandleUpdate(r)
		if err != nil {
			log.Warn().Err(err).Str("method", r.Method).Msg("Discarding bad webhook request")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		select {
		case updates <- *update:
			w.WriteHeader(http.StatusOK)
		case <-done:
			// Telegram retries anything that is not a 2xx.
			w.WriteHeader(http.StatusServiceUnavailable)
		case <-r.Context().Done():
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
}

// dispatch fans updates out to the worker pool until ctx is cancelled
// or the updates channel closes, then waits for in-flight work.
func (s *BotServer) dispatch(ctx context.Context, updates <-chan tgbotapi.Update) {
	jobs := make(chan tgbotapi.Update, 100)

	// Handlers finish their reply even while we shut down.
	workCtx := context.WithoutCancel(ctx)

	workers := s.cfg.Polling.WorkerPoolSize
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			log := s.log.With().Int("worker_id", id).Logger()
			log.Debug().Msg("Starting worker")
			for job := range jobs {
				s.handler.HandleUpdate(workCtx, &job)
			}
			log.Debug().Msg("Stopping worker (channel closed)")
		}(w)
	}

	s.log.Info().Msg("Update listener started")
	defer func() {
		close(jobs)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			select {
			case jobs <- update:
			case <-ctx.Done():
				return
			}
		}
	}
}
