package domain

import "errors"

var (
	// ErrEmptyInput is returned when there is nothing to decode.
	// It marks an "empty state", not a failure.
	ErrEmptyInput = errors.New("empty input")

	// ErrDecodeFailed is the single failure signal of the decode path.
	// Malformed input, wrong password and tampered data all map to it.
	ErrDecodeFailed = errors.New("decode failed")

	ErrUnknownMethod = errors.New("unknown encryption method")
)
