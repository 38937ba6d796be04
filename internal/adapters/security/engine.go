package security

import (
	"Cryptext/internal/core/domain"
	"Cryptext/internal/core/ports"
	"crypto/rand"
	"io"

	"github.com/rs/zerolog"
)

// TransformEngine implements ports.TransformPort for both methods.
// It holds no mutable state and is safe for concurrent use.
type TransformEngine struct {
	aes *aesSealer
	log zerolog.Logger
}

var _ ports.TransformPort = (*TransformEngine)(nil) // Ensure compliance

// EngineOption customizes a TransformEngine.
type EngineOption func(*TransformEngine)

// WithRandom replaces crypto/rand as the salt and IV source.
func WithRandom(r io.Reader) EngineOption {
	return func(e *TransformEngine) { e.aes.rand = r }
}

// WithKDFIterations sets the PBKDF2 iteration count. Values < 1 are ignored.
func WithKDFIterations(n int) EngineOption {
	return func(e *TransformEngine) {
		if n > 0 {
			e.aes.iterations = n
		}
	}
}

// NewTransformEngine creates the engine with its own contextual logger.
func NewTransformEngine(baseLogger *zerolog.Logger, opts ...EngineOption) *TransformEngine {
	e := &TransformEngine{
		aes: &aesSealer{rand: rand.Reader, iterations: DefaultKDFIterations},
		log: baseLogger.With().Str("component", "transform_engine").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode transforms text with the given method. Empty text gives an empty result.
func (e *TransformEngine) Encode(text, password string, method domain.EncryptionMethod) string {
	if text == "" {
		return ""
	}

	switch method {
	case domain.MethodBase64:
		return encodeBase64(text)
	case domain.MethodAES:
		out, err := e.aes.Seal([]byte(text), password)
		if err != nil {
			e.log.Error().Err(err).Msg("Failed to encrypt text")
			return ""
		}
		return out
	default:
		e.log.Error().Str("method", string(method)).Msg("Encode called with unknown method")
		return ""
	}
}

// Decode reverses Encode. All failures collapse into domain.ErrDecodeFailed.
func (e *TransformEngine) Decode(input, password string, method domain.EncryptionMethod) (string, error) {
	if input == "" {
		return "", domain.ErrEmptyInput
	}

	switch method {
	case domain.MethodBase64:
		text, err := decodeBase64(input)
		if err != nil {
			e.log.Debug().Err(err).Int("input_len", len(input)).Msg("Base64 decode failed")
			return "", domain.ErrDecodeFailed
		}
		return text, nil
	case domain.MethodAES:
		plaintext, err := e.aes.Open(input, password)
		if err != nil {
			// Wrong password and tampered data look the same from here on.
			e.log.Debug().Err(err).Int("input_len", len(input)).Msg("AES decrypt failed")
			return "", domain.ErrDecodeFailed
		}
		return string(plaintext), nil
	default:
		e.log.Error().Str("method", string(method)).Msg("Decode called with unknown method")
		return "", domain.ErrDecodeFailed
	}
}
