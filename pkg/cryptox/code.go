package cryptox

import (
	"crypto/rand"
	"fmt"
)

// CodeAlphabet is the character set for one-time codes. Crockford-style
// base32: no lowercase, no easily confused I/L/O/U.
const CodeAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// DefaultCodeLength is the length of generated one-time codes.
const DefaultCodeLength = 6

// GenerateCode creates a fixed-length one-time code from a cryptographically
// secure random source. Returns an error if the random source fails.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}

	// 32 characters divides 256 evenly, so masking introduces no bias.
	code := make([]byte, length)
	for i, b := range buf {
		code[i] = CodeAlphabet[b&31]
	}
	return string(code), nil
}
