package bot

import (
	"Cryptext/internal/core/ports"
	"Cryptext/internal/core/services"
	"Cryptext/internal/shared/config"

	"github.com/rs/zerolog"
)

// Deps is everything a handler constructor may need.
// This allows us to pass dependencies from main.go
type Deps struct {
	Cfg       *config.Config
	Engine    ports.TransformPort
	Sessions  ports.SessionStore
	Bus       ports.EventBus
	Stats     *services.StatsService
	BotClient ports.BotClientPort
	Logger    *zerolog.Logger
}

// --- Define types for handler "constructors" ---

type CommandHandlerConstructor func(deps Deps) ports.CommandHandler
type CallbackHandlerConstructor func(deps Deps) ports.CallbackHandler
type TextHandlerConstructor func(deps Deps) ports.TextHandler

// --- Create the global registries ---

var (
	commandRegistry  []CommandHandlerConstructor
	callbackRegistry []CallbackHandlerConstructor
	textHandler      TextHandlerConstructor
)

// RegisterCommand is called by handlers in their init() function
func RegisterCommand(constructor CommandHandlerConstructor) {
	commandRegistry = append(commandRegistry, constructor)
}

// RegisterCallback is called by callback handlers in their init()
func RegisterCallback(constructor CallbackHandlerConstructor) {
	callbackRegistry = append(callbackRegistry, constructor)
}

// RegisterText is called by the text handler in its init() function
func RegisterText(constructor TextHandlerConstructor) {
	// We only allow one global text handler
	textHandler = constructor
}

// RegisterAllHandlers is the single function called by main.go
// It builds all registered handlers and passes them to the router.
func RegisterAllHandlers(router *Router, deps Deps) {
	log := deps.Logger.With().Str("component", "handler_registry").Logger()

	for _, constructor := range commandRegistry {
		router.RegisterCommandHandler(constructor(deps))
	}

	for _, constructor := range callbackRegistry {
		router.RegisterCallbackHandler(constructor(deps))
	}

	if textHandler != nil {
		router.SetTextHandler(textHandler(deps))
		log.Info().Msg("Registered main text handler")
	}

	log.Info().
		Int("commands", len(commandRegistry)).
		Int("callbacks", len(callbackRegistry)).
		Msg("All handlers registered")
}
