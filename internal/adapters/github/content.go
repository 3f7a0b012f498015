package github

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeContent turns UTF-8 text into the base64 payload the contents API expects.
func EncodeContent(text []byte) string {
	return base64.StdEncoding.EncodeToString(text)
}

// DecodeContent reverses EncodeContent. GitHub wraps long payloads at 60 columns,
// so line breaks are ignored.
func DecodeContent(payload string) ([]byte, error) {
	clean := strings.NewReplacer("\n", "", "\r", "").Replace(payload)
	data, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("decode content payload: %w", err)
	}
	return data, nil
}
