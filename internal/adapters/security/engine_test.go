package security

import (
	"Cryptext/internal/core/domain"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(opts ...EngineOption) *TransformEngine {
	nopLogger := zerolog.Nop()
	opts = append([]EngineOption{WithKDFIterations(1000)}, opts...)
	return NewTransformEngine(&nopLogger, opts...)
}

func TestTransformEngine_Roundtrip(t *testing.T) {
	engine := newTestEngine()

	texts := []string{
		"hello world",
		"a",
		"line one\nline two\r\n\ttabbed",
		"héllo wörld, 你好, 👋",
		strings.Repeat("long text ", 500),
	}

	for _, method := range domain.Methods {
		for _, text := range texts {
			encoded := engine.Encode(text, "secret123", method)
			require.NotEmpty(t, encoded, "method %s", method)

			decoded, err := engine.Decode(encoded, "secret123", method)
			require.NoError(t, err, "method %s", method)
			assert.Equal(t, text, decoded, "method %s", method)
		}
	}
}

func TestTransformEngine_AES_NonDeterministic(t *testing.T) {
	engine := newTestEngine()

	first := engine.Encode("hello world", "secret123", domain.MethodAES)
	second := engine.Encode("hello world", "secret123", domain.MethodAES)
	assert.NotEqual(t, first, second, "same text and password must give different envelopes")

	for _, envelope := range []string{first, second} {
		text, err := engine.Decode(envelope, "secret123", domain.MethodAES)
		require.NoError(t, err)
		assert.Equal(t, "hello world", text)
	}
}

func TestTransformEngine_AES_WrongPassword(t *testing.T) {
	engine := newTestEngine()

	envelope := engine.Encode("hello world", "secret123", domain.MethodAES)

	for _, pwd := range []string{"wrong", "", "secret1234", "Secret123"} {
		text, err := engine.Decode(envelope, pwd, domain.MethodAES)
		assert.ErrorIs(t, err, domain.ErrDecodeFailed, "password %q", pwd)
		assert.Empty(t, text)
	}
}

func TestTransformEngine_AES_TamperedCiphertext(t *testing.T) {
	engine := newTestEngine()
	envelope := engine.Encode("hello world", "secret123", domain.MethodAES)

	// The ciphertext starts at byte 44; base64 group 15 (char 60) is the
	// first one made of ciphertext bytes only.
	for i := 60; i < len(envelope); i++ {
		if envelope[i] == '=' {
			break
		}
		replacement := byte('A')
		if envelope[i] == 'A' {
			replacement = 'B'
		}
		tampered := envelope[:i] + string(replacement) + envelope[i+1:]

		text, err := engine.Decode(tampered, "secret123", domain.MethodAES)
		if !errors.Is(err, domain.ErrDecodeFailed) {
			t.Fatalf("char %d flipped: got (%q, %v), want ErrDecodeFailed", i, text, err)
		}
	}
}

func TestTransformEngine_AES_FailuresAreIndistinguishable(t *testing.T) {
	engine := newTestEngine()
	envelope := engine.Encode("hello world", "secret123", domain.MethodAES)

	_, wrongPwd := engine.Decode(envelope, "wrong", domain.MethodAES)
	_, malformed := engine.Decode("%%%not an envelope%%%", "secret123", domain.MethodAES)
	_, truncated := engine.Decode(envelope[:20], "secret123", domain.MethodAES)

	assert.Equal(t, domain.ErrDecodeFailed, wrongPwd)
	assert.Equal(t, domain.ErrDecodeFailed, malformed)
	assert.Equal(t, domain.ErrDecodeFailed, truncated)
}

func TestTransformEngine_EmptyInput(t *testing.T) {
	engine := newTestEngine()

	for _, method := range domain.Methods {
		assert.Empty(t, engine.Encode("", "secret", method), "method %s", method)

		text, err := engine.Decode("", "secret", method)
		assert.ErrorIs(t, err, domain.ErrEmptyInput, "method %s", method)
		assert.Empty(t, text)
	}
}

func TestTransformEngine_AES_EmptyPlaintextEnvelope(t *testing.T) {
	engine := newTestEngine()

	// Encode never produces this, but a valid envelope of empty text is a
	// success with an empty result, not a failure.
	envelope, err := engine.aes.Seal(nil, "secret")
	require.NoError(t, err)

	text, err := engine.Decode(envelope, "secret", domain.MethodAES)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestTransformEngine_Base64(t *testing.T) {
	engine := newTestEngine()

	assert.Equal(t, "aGVsbG8gd29ybGQ=", engine.Encode("hello world", "", domain.MethodBase64))

	text, err := engine.Decode("aGVsbG8gd29ybGQ=", "", domain.MethodBase64)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	// The password is ignored in both directions.
	assert.Equal(t, "aGVsbG8gd29ybGQ=", engine.Encode("hello world", "anything", domain.MethodBase64))
	text, err = engine.Decode(engine.Encode("hello world", "", domain.MethodBase64), "ignored", domain.MethodBase64)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestTransformEngine_Base64_Invalid(t *testing.T) {
	engine := newTestEngine()

	testCases := map[string]string{
		"bad characters":   "not-valid-base64!!",
		"bad length":       "aGVsbG8",
		"url safe":         "aGVsbG8_d29ybGQ-",
		"padding in front": "=aGVsbG8",
	}

	for name, in := range testCases {
		t.Run(name, func(t *testing.T) {
			text, err := engine.Decode(in, "", domain.MethodBase64)
			assert.ErrorIs(t, err, domain.ErrDecodeFailed)
			assert.Empty(t, text)
		})
	}
}

func TestTransformEngine_Roundtrip_NonUTF8(t *testing.T) {
	engine := newTestEngine()

	// Latin-1 bytes piped in from a terminal are not valid UTF-8.
	text := "caf\xe9"

	for _, method := range domain.Methods {
		encoded := engine.Encode(text, "pw", method)
		require.NotEmpty(t, encoded, "method %s", method)

		decoded, err := engine.Decode(encoded, "pw", method)
		require.NoError(t, err, "method %s", method)
		assert.Equal(t, text, decoded, "method %s", method)
	}

	assert.Equal(t, "Y2Fm6Q==", engine.Encode(text, "", domain.MethodBase64))
}

func TestTransformEngine_UnknownMethod(t *testing.T) {
	engine := newTestEngine()

	assert.Empty(t, engine.Encode("hello", "pwd", domain.EncryptionMethod("ROT13")))

	_, err := engine.Decode("aGVsbG8=", "pwd", domain.EncryptionMethod("ROT13"))
	assert.ErrorIs(t, err, domain.ErrDecodeFailed)
}

func TestTransformEngine_AES_RandomFailure(t *testing.T) {
	engine := newTestEngine(WithRandom(bytes.NewReader(nil)))

	assert.Empty(t, engine.Encode("hello", "pwd", domain.MethodAES))
}

func TestTransformEngine_KDFIterationsMustMatch(t *testing.T) {
	nopLogger := zerolog.Nop()
	fast := NewTransformEngine(&nopLogger, WithKDFIterations(1000))
	other := NewTransformEngine(&nopLogger, WithKDFIterations(2000))

	envelope := fast.Encode("hello", "pwd", domain.MethodAES)
	_, err := other.Decode(envelope, "pwd", domain.MethodAES)
	assert.ErrorIs(t, err, domain.ErrDecodeFailed)
}

func TestTransformEngine_Concurrent(t *testing.T) {
	engine := newTestEngine()

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			env := engine.Encode("concurrent", "pwd", domain.MethodAES)
			text, err := engine.Decode(env, "pwd", domain.MethodAES)
			if err == nil && text != "concurrent" {
				err = errors.New("round trip mismatch")
			}
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
}
