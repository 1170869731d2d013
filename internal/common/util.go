package common

import (
	"crypto/rand"
	"fmt"
)

var randRead = func(b []byte) (int, error) { return rand.Read(b) }

// GenerateRandByteArray returns n bytes from crypto/rand.
func GenerateRandByteArray(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := randRead(b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}

// WipeByteArray zeroes b in place. Keys, passphrases and plaintext buffers
// go through it once they are no longer needed. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
