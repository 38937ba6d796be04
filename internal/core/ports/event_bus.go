package ports

import (
	"context"
	"time"
)

// Event is one published message. Transform events travel on the
// "transform.<outcome>" topics with a domain.TransformEvent payload.
type Event struct {
	Topic       string
	Data        any
	PublishedAt time.Time
}

// EventHandler handles one event. Returned errors are logged by the bus.
type EventHandler func(ctx context.Context, event Event) error

// EventBus is the in-process pub/sub used for usage statistics.
type EventBus interface {
	// Publish delivers data to every subscriber of topic without waiting for them.
	Publish(ctx context.Context, topic string, data any) error

	Subscribe(topic string, handler EventHandler)
}
