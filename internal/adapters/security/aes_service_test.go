package security

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"
)

// helper function to build a sealer that is fast enough for tests
func newTestSealer() *aesSealer {
	return &aesSealer{rand: rand.Reader, iterations: 1000}
}

func TestAESSealer_SealOpen_Roundtrip(t *testing.T) {
	sealer := newTestSealer()

	testCases := []struct {
		name     string
		password string
		payload  []byte
	}{
		{
			name:     "Short message",
			password: "secret123",
			payload:  []byte("this is a secret message"),
		},
		{
			name:     "Unicode payload",
			password: "pässwörd",
			payload:  []byte("héllo wörld, 你好, 👋"),
		},
		{
			name:     "Empty password",
			password: "",
			payload:  []byte("no password at all"),
		},
		{
			name:     "Empty Payload",
			password: "secret",
			payload:  []byte(""),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// 1. Seal
			envelope, err := sealer.Seal(tc.payload, tc.password)
			if err != nil {
				t.Fatalf("Seal failed: %v", err)
			}

			if envelope == string(tc.payload) {
				t.Fatal("Seal did not change the data")
			}

			// 2. Open
			plaintext, err := sealer.Open(envelope, tc.password)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}

			// 3. Verify
			if !bytes.Equal(plaintext, tc.payload) {
				t.Fatalf("Decrypted data does not match original. \nGot: %s\nWant: %s",
					string(plaintext), string(tc.payload))
			}
		})
	}
}

func TestAESSealer_EnvelopeLayout(t *testing.T) {
	// Deterministic salt (0x01..) and iv (0x11..) so we can find them again.
	header := make([]byte, saltSize+ivSize)
	for i := range header[:saltSize] {
		header[i] = 0x01
	}
	for i := saltSize; i < len(header); i++ {
		header[i] = 0x11
	}
	sealer := &aesSealer{rand: bytes.NewReader(header), iterations: 1000}

	payload := []byte("hello world")
	envelope, err := sealer.Seal(payload, "secret123")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	raw, err := envelopeEncoding.DecodeString(envelope)
	if err != nil {
		t.Fatalf("Envelope is not strict base64: %v", err)
	}
	if got, want := len(raw), envelopeHeaderSize+len(payload); got != want {
		t.Fatalf("Envelope length: got %d, want %d", got, want)
	}
	if !bytes.Equal(raw[:saltSize], header[:saltSize]) {
		t.Errorf("Salt is not at the front of the envelope")
	}
	if !bytes.Equal(raw[saltSize:saltSize+ivSize], header[saltSize:]) {
		t.Errorf("IV does not follow the salt")
	}
}

func TestAESSealer_Open_Tampered(t *testing.T) {
	sealer := newTestSealer()
	payload := []byte("do not tamper with this")

	envelope, err := sealer.Seal(payload, "secret")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	raw, _ := envelopeEncoding.DecodeString(envelope)

	// Flip one bit in every region: salt, iv, tag, ciphertext.
	for _, idx := range []int{0, saltSize, saltSize + ivSize, envelopeHeaderSize, len(raw) - 1} {
		tampered := bytes.Clone(raw)
		tampered[idx] ^= 0x01

		if _, err := sealer.Open(envelopeEncoding.EncodeToString(tampered), "secret"); err == nil {
			t.Fatalf("Open succeeded with byte %d flipped, but it should have failed.", idx)
		}
	}
}

func TestAESSealer_Open_Malformed(t *testing.T) {
	sealer := newTestSealer()

	testCases := map[string]string{
		"not base64":    "not-valid-base64!!",
		"too short":     envelopeEncoding.EncodeToString(make([]byte, envelopeHeaderSize-1)),
		"header only":   envelopeEncoding.EncodeToString(make([]byte, envelopeHeaderSize)),
		"plain text":    "hello world",
		"url alphabet":  strings.Repeat("_-", 40),
		"missing parts": "AAAA",
	}

	for name, in := range testCases {
		t.Run(name, func(t *testing.T) {
			if _, err := sealer.Open(in, "secret"); err == nil {
				t.Fatal("Open should fail on malformed envelope")
			}
		})
	}
}

func TestAESSealer_Seal_RandomFailure(t *testing.T) {
	sealer := &aesSealer{rand: bytes.NewReader(nil), iterations: 1000}

	if _, err := sealer.Seal([]byte("payload"), "secret"); err == nil {
		t.Fatal("Seal should fail when the random source is exhausted")
	}
}
