package memory

import (
	"Cryptext/internal/core/domain"
	"Cryptext/internal/core/ports"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SessionStore implements ports.SessionStore in process memory.
type SessionStore struct {
	log           zerolog.Logger
	defaultMethod domain.EncryptionMethod
	ttl           time.Duration
	now           func() time.Time

	mu       sync.RWMutex
	sessions map[int64]*domain.Session
}

var _ ports.SessionStore = (*SessionStore)(nil) // Ensure compliance

// NewSessionStore creates an empty store. A ttl <= 0 disables expiry.
func NewSessionStore(defaultMethod domain.EncryptionMethod, ttl time.Duration, baseLogger *zerolog.Logger) *SessionStore {
	return &SessionStore{
		log:           baseLogger.With().Str("component", "session_store").Logger(),
		defaultMethod: defaultMethod,
		ttl:           ttl,
		now:           time.Now,
		sessions:      make(map[int64]*domain.Session),
	}
}

func (s *SessionStore) expired(sess *domain.Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.UpdatedAt) > s.ttl
}

// Get returns a copy of the chat's session. Expired sessions come back as new.
func (s *SessionStore) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	now := s.now()

	s.mu.RLock()
	sess, ok := s.sessions[chatID]
	if ok && !s.expired(sess, now) {
		cp := *sess
		s.mu.RUnlock()
		return &cp, nil
	}
	s.mu.RUnlock()

	fresh := domain.NewSession(chatID, s.defaultMethod)
	fresh.UpdatedAt = now
	return fresh, nil
}

// Save stores a copy of the session and stamps UpdatedAt.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return errors.New("session is nil")
	}
	if !session.Method.Valid() {
		return domain.ErrUnknownMethod
	}

	cp := *session
	cp.UpdatedAt = s.now()

	s.mu.Lock()
	s.sessions[cp.ChatID] = &cp
	s.mu.Unlock()

	session.UpdatedAt = cp.UpdatedAt
	return nil
}

// Reset clears the in-flight flow of a chat, keeping its method.
func (s *SessionStore) Reset(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return nil
	}
	sess.Reset()
	sess.UpdatedAt = s.now()
	return nil
}

// Sweep removes sessions idle longer than the TTL and returns how many went.
func (s *SessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Int("remaining", len(s.sessions)).Msg("Swept idle sessions")
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", interval).Dur("ttl", s.ttl).Msg("Session sweeper started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Session sweeper stopped")
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
