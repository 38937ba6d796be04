package domain

import (
	"time"

	"github.com/google/uuid"
)

// Direction of a transform call.
type Direction string

const (
	DirectionEncode Direction = "encode"
	DirectionDecode Direction = "decode"
)

// Outcome of a transform call, as seen by the shell.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeEmpty     Outcome = "empty"
)

// TransformEvent describes a finished transform.
// It only carries sizes; text and passwords never leave the handler.
type TransformEvent struct {
	ID        uuid.UUID
	Direction Direction
	Method    EncryptionMethod
	Outcome   Outcome
	InputLen  int
	OutputLen int
	At        time.Time
}

// NewTransformEvent stamps a new event with a fresh ID and the current time.
func NewTransformEvent(dir Direction, method EncryptionMethod, outcome Outcome, inputLen, outputLen int) TransformEvent {
	return TransformEvent{
		ID:        uuid.New(),
		Direction: dir,
		Method:    method,
		Outcome:   outcome,
		InputLen:  inputLen,
		OutputLen: outputLen,
		At:        time.Now().UTC(),
	}
}

// Topic returns the event bus topic for this event.
func (e TransformEvent) Topic() string {
	return "transform." + string(e.Outcome)
}
