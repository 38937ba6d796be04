package ports

import (
	"Cryptext/internal/core/domain"
	"context"
)

// SessionStore keeps the chat shell's per-chat state.
type SessionStore interface {
	// Get returns a copy of the chat's session, creating a default one if needed.
	Get(ctx context.Context, chatID int64) (*domain.Session, error)

	// Save replaces the chat's session.
	Save(ctx context.Context, session *domain.Session) error

	// Reset clears the chat's in-flight flow, keeping its method.
	Reset(ctx context.Context, chatID int64) error
}
