package domain

import (
	"fmt"
	"strings"
)

// EncryptionMethod is a custom type for our transform ENUM
type EncryptionMethod string

const (
	MethodAES    EncryptionMethod = "AES"
	MethodBase64 EncryptionMethod = "BASE64"
)

// Methods lists every supported method, in display order.
var Methods = []EncryptionMethod{MethodAES, MethodBase64}

// ParseMethod turns user input ("aes", "Base64", ...) into a method.
func ParseMethod(s string) (EncryptionMethod, error) {
	switch EncryptionMethod(strings.ToUpper(strings.TrimSpace(s))) {
	case MethodAES:
		return MethodAES, nil
	case MethodBase64:
		return MethodBase64, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Valid reports whether m is one of the two known methods.
func (m EncryptionMethod) Valid() bool {
	return m == MethodAES || m == MethodBase64
}

// RequiresPassword is true only for AES.
func (m EncryptionMethod) RequiresPassword() bool {
	return m == MethodAES
}

// Label is the human-readable name shown in the UI shells.
func (m EncryptionMethod) Label() string {
	switch m {
	case MethodAES:
		return "AES"
	case MethodBase64:
		return "Base64"
	}
	return string(m)
}
