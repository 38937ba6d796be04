package domain

import "time"

// SessionState is a custom type for our chat state machine ENUM
type SessionState string

const (
	StateNone                    SessionState = "none"
	StateAwaitingEncryptText     SessionState = "awaiting_encrypt_text"
	StateAwaitingEncryptPassword SessionState = "awaiting_encrypt_password"
	StateAwaitingDecryptText     SessionState = "awaiting_decrypt_text"
	StateAwaitingDecryptPassword SessionState = "awaiting_decrypt_password"
)

// Session is the chat shell's per-chat state. It lives in memory only.
type Session struct {
	ChatID      int64
	Method      EncryptionMethod
	State       SessionState
	PendingText string // Text waiting for a password
	UpdatedAt   time.Time
}

// NewSession returns an idle session using the given method.
func NewSession(chatID int64, method EncryptionMethod) *Session {
	return &Session{
		ChatID:    chatID,
		Method:    method,
		State:     StateNone,
		UpdatedAt: time.Now(),
	}
}

// AwaitingInput reports whether the next plain message belongs to a flow.
func (s *Session) AwaitingInput() bool {
	return s.State != StateNone && s.State != ""
}

// Reset drops any in-flight flow but keeps the selected method.
func (s *Session) Reset() {
	s.State = StateNone
	s.PendingText = ""
}
