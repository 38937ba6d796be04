package ports

import "Cryptext/internal/core/domain"

// TransformPort defines the two-way text transform used by every shell.
// The method is passed on every call; implementations hold no per-call state.
type TransformPort interface {
	// Encode never fails. An empty result means there was nothing to encode.
	Encode(text, password string, method domain.EncryptionMethod) string

	// Decode returns domain.ErrEmptyInput for empty input and
	// domain.ErrDecodeFailed for every other failure. The string is
	// always empty when err != nil.
	Decode(input, password string, method domain.EncryptionMethod) (string, error)
}
