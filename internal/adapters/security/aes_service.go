package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Envelope layout: salt | iv | tag | ciphertext, base64 (std, padded).
const (
	saltSize = 16
	ivSize   = 12
	tagSize  = 16
	keySize  = 32 // AES-256

	envelopeHeaderSize = saltSize + ivSize + tagSize

	DefaultKDFIterations = 100_000
)

// envelopeEncoding rejects non-zero padding bits, so every character of an
// envelope is significant.
var envelopeEncoding = base64.StdEncoding.Strict()

var (
	errEnvelopeEncoding = errors.New("envelope is not valid base64")
	errEnvelopeTooShort = errors.New("envelope is too short")
)

// aesSealer implements password-based AES-256-GCM with a self-describing envelope.
type aesSealer struct {
	rand       io.Reader
	iterations int
}

// deriveKey stretches the password with PBKDF2-HMAC-SHA256.
func (s *aesSealer) deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, s.iterations, keySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("could not create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("could not create GCM: %w", err)
	}
	return gcm, nil
}

// Seal encrypts plaintext under a fresh salt and IV and returns the envelope.
func (s *aesSealer) Seal(plaintext []byte, password string) (string, error) {
	header := make([]byte, saltSize+ivSize)
	if _, err := io.ReadFull(s.rand, header); err != nil {
		return "", fmt.Errorf("could not generate salt and iv: %w", err)
	}
	salt, iv := header[:saltSize], header[saltSize:]

	gcm, err := newGCM(s.deriveKey(password, salt))
	if err != nil {
		return "", err
	}

	// Seal appends the tag; the envelope carries it in front of the ciphertext.
	sealed := gcm.Seal(nil, iv, plaintext, nil)
	ct, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	out := make([]byte, 0, envelopeHeaderSize+len(ct))
	out = append(out, salt...)
	out = append(out, iv...)
	out = append(out, tag...)
	out = append(out, ct...)
	return envelopeEncoding.EncodeToString(out), nil
}

// Open parses the envelope and decrypts it.
func (s *aesSealer) Open(envelope, password string) ([]byte, error) {
	raw, err := envelopeEncoding.DecodeString(envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errEnvelopeEncoding, err)
	}
	if len(raw) < envelopeHeaderSize {
		return nil, errEnvelopeTooShort
	}

	salt := raw[:saltSize]
	iv := raw[saltSize : saltSize+ivSize]
	tag := raw[saltSize+ivSize : envelopeHeaderSize]
	ct := raw[envelopeHeaderSize:]

	gcm, err := newGCM(s.deriveKey(password, salt))
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ct)+tagSize)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("could not decrypt: %w", err)
	}
	return plaintext, nil
}
