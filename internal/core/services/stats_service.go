package services

import (
	"Cryptext/internal/core/domain"
	"Cryptext/internal/core/ports"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// StatsKey identifies one counter.
type StatsKey struct {
	Direction domain.Direction
	Method    domain.EncryptionMethod
	Outcome   domain.Outcome
}

// StatsSnapshot is a point-in-time copy of all counters.
type StatsSnapshot struct {
	Counts    map[StatsKey]int
	Since     time.Time
	LastEvent time.Time
}

// Total sums every counter.
func (s StatsSnapshot) Total() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// Keys returns the snapshot keys in a stable order.
func (s StatsSnapshot) Keys() []StatsKey {
	keys := make([]StatsKey, 0, len(s.Counts))
	for k := range s.Counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Direction != b.Direction {
			return a.Direction > b.Direction // encode before decode
		}
		if a.Method != b.Method {
			return a.Method < b.Method
		}
		return a.Outcome > b.Outcome
	})
	return keys
}

// StatsService counts transform outcomes published on the event bus.
type StatsService struct {
	log zerolog.Logger

	mu        sync.Mutex
	counts    map[StatsKey]int
	since     time.Time
	lastEvent time.Time
}

// TransformTopics are the topics the shells publish TransformEvents on.
var TransformTopics = []string{
	domain.TransformEvent{Outcome: domain.OutcomeSucceeded}.Topic(),
	domain.TransformEvent{Outcome: domain.OutcomeFailed}.Topic(),
	domain.TransformEvent{Outcome: domain.OutcomeEmpty}.Topic(),
}

// NewStatsService creates the service and subscribes it to all transform topics.
func NewStatsService(bus ports.EventBus, baseLogger *zerolog.Logger) *StatsService {
	s := &StatsService{
		log:    baseLogger.With().Str("component", "stats_service").Logger(),
		counts: make(map[StatsKey]int),
		since:  time.Now().UTC(),
	}
	for _, topic := range TransformTopics {
		bus.Subscribe(topic, s.handle)
	}
	return s
}

func (s *StatsService) handle(ctx context.Context, event ports.Event) error {
	ev, ok := event.Data.(domain.TransformEvent)
	if !ok {
		return fmt.Errorf("stats: unexpected payload %T on topic %s", event.Data, event.Topic)
	}

	s.mu.Lock()
	s.counts[StatsKey{Direction: ev.Direction, Method: ev.Method, Outcome: ev.Outcome}]++
	if ev.At.After(s.lastEvent) {
		s.lastEvent = ev.At
	}
	s.mu.Unlock()

	s.log.Debug().
		Str("event_id", ev.ID.String()).
		Str("direction", string(ev.Direction)).
		Str("method", string(ev.Method)).
		Str("outcome", string(ev.Outcome)).
		Msg("Transform counted")
	return nil
}

// Snapshot returns a copy of the counters.
func (s *StatsService) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[StatsKey]int, len(s.counts))
	for k, v := range s.counts {
		counts[k] = v
	}
	return StatsSnapshot{Counts: counts, Since: s.since, LastEvent: s.lastEvent}
}

// PublishTransform sends ev on the topic matching its outcome.
func PublishTransform(ctx context.Context, bus ports.EventBus, ev domain.TransformEvent) error {
	return bus.Publish(ctx, ev.Topic(), ev)
}
