package services

import (
	"Cryptext/internal/adapters/eventbus"
	"Cryptext/internal/core/domain"
	"Cryptext/internal/core/ports"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_CountsPublishedEvents(t *testing.T) {
	nopLogger := zerolog.Nop()
	bus := eventbus.NewInMemoryEventBus(&nopLogger)
	stats := NewStatsService(bus, &nopLogger)
	ctx := context.Background()

	events := []domain.TransformEvent{
		domain.NewTransformEvent(domain.DirectionEncode, domain.MethodAES, domain.OutcomeSucceeded, 5, 60),
		domain.NewTransformEvent(domain.DirectionEncode, domain.MethodAES, domain.OutcomeSucceeded, 7, 64),
		domain.NewTransformEvent(domain.DirectionDecode, domain.MethodAES, domain.OutcomeFailed, 60, 0),
		domain.NewTransformEvent(domain.DirectionDecode, domain.MethodBase64, domain.OutcomeEmpty, 0, 0),
	}
	for _, ev := range events {
		require.NoError(t, PublishTransform(ctx, bus, ev))
	}
	bus.Wait()

	snap := stats.Snapshot()
	assert.Equal(t, 4, snap.Total())
	assert.Equal(t, 2, snap.Counts[StatsKey{domain.DirectionEncode, domain.MethodAES, domain.OutcomeSucceeded}])
	assert.Equal(t, 1, snap.Counts[StatsKey{domain.DirectionDecode, domain.MethodAES, domain.OutcomeFailed}])
	assert.Equal(t, 1, snap.Counts[StatsKey{domain.DirectionDecode, domain.MethodBase64, domain.OutcomeEmpty}])
	assert.False(t, snap.LastEvent.IsZero())

	keys := snap.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, domain.DirectionEncode, keys[0].Direction)
}

func TestStatsService_SnapshotIsACopy(t *testing.T) {
	nopLogger := zerolog.Nop()
	bus := eventbus.NewInMemoryEventBus(&nopLogger)
	stats := NewStatsService(bus, &nopLogger)

	snap := stats.Snapshot()
	snap.Counts[StatsKey{Direction: domain.DirectionEncode}] = 99

	assert.Equal(t, 0, stats.Snapshot().Total())
}

func TestStatsService_RejectsForeignPayload(t *testing.T) {
	nopLogger := zerolog.Nop()
	bus := eventbus.NewInMemoryEventBus(&nopLogger)
	stats := NewStatsService(bus, &nopLogger)

	err := stats.handle(context.Background(), ports.Event{Topic: "transform.failed", Data: "not an event"})
	assert.Error(t, err)
	assert.Equal(t, 0, stats.Snapshot().Total())
}
