// Package otp generates one-time verification codes and reset tokens.
package otp

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
)

// DefaultLength is the code length used by the verification flows.
const DefaultLength = 6

var ten = big.NewInt(10)

// Generate returns a code of length decimal digits, each drawn
// independently and uniformly. Leading zeros are allowed.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate code digit: %w", err)
		}
		digits[i] = '0' + byte(n.Int64())
	}
	return string(digits), nil
}

// NewResetToken returns a 256-bit hex-encoded token for the password
// recovery flow.
func NewResetToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
