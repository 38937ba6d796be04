package eventbus

import (
	"Cryptext/internal/core/ports"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// InMemoryEventBus implements the ports.EventBus interface
type InMemoryEventBus struct {
	log         zerolog.Logger
	subscribers map[string][]ports.EventHandler
	mu          sync.RWMutex
	inflight    sync.WaitGroup
}

var _ ports.EventBus = (*InMemoryEventBus)(nil)

// NewInMemoryEventBus creates a new, empty event bus
func NewInMemoryEventBus(baseLogger *zerolog.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		log:         baseLogger.With().Str("component", "in_memory_bus").Logger(),
		subscribers: make(map[string][]ports.EventHandler),
	}
}

// Publish sends an event to all subscribers of a topic
func (b *InMemoryEventBus) Publish(ctx context.Context, topic string, data any) error {
	if topic == "" {
		return fmt.Errorf("publish: empty topic")
	}

	b.mu.RLock()
	handlers := append([]ports.EventHandler(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Debug().Str("topic", topic).Msg("Published event with no subscribers")
		return nil
	}

	event := ports.Event{
		Topic:       topic,
		Data:        data,
		PublishedAt: time.Now().UTC(),
	}

	// One goroutine per handler so a slow subscriber never blocks a chat reply.
	for _, handler := range handlers {
		b.inflight.Add(1)
		go func(h ports.EventHandler) {
			defer b.inflight.Done()
			// Background context: the handler outlives the publisher's request.
			if err := h(context.Background(), event); err != nil {
				b.log.Error().Err(err).Str("topic", topic).Msg("Event handler failed")
			}
		}(handler)
	}

	b.log.Debug().Str("topic", topic).Int("handlers", len(handlers)).Msg("Event published")
	return nil
}

// Subscribe registers a handler for a specific topic
func (b *InMemoryEventBus) Subscribe(topic string, handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[topic] = append(b.subscribers[topic], handler)
	b.log.Info().Str("topic", topic).Msg("New handler subscribed to topic")
}

// Wait blocks until every handler started so far has returned.
func (b *InMemoryEventBus) Wait() {
	b.inflight.Wait()
}
