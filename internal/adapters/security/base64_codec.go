package security

import (
	"encoding/base64"
	"fmt"
)

// Both directions work on raw bytes so that any Go string round-trips,
// the same as through the AES envelope.
func encodeBase64(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

func decodeBase64(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to base64-decode input: %w", err)
	}
	return string(raw), nil
}
