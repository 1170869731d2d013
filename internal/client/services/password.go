package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

const (
	MinPasswordLength     = 4
	MaxPasswordLength     = 128
	DefaultPasswordLength = 16
)

const (
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// PasswordOptions selects the generated password length and alphabet.
type PasswordOptions struct {
	Length  int
	Upper   bool
	Lower   bool
	Digits  bool
	Symbols bool
}

func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{Length: DefaultPasswordLength, Upper: true, Lower: true, Digits: true, Symbols: true}
}

var randIndex = func(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// GeneratePassword returns a random password. Every character is drawn
// uniformly from the union of the selected sets; with no set selected the
// lowercase letters are used.
func GeneratePassword(opts PasswordOptions) (string, error) {
	if opts.Length < MinPasswordLength || opts.Length > MaxPasswordLength {
		return "", fmt.Errorf("%w: length must be between %d and %d", common.ErrorValidation, MinPasswordLength, MaxPasswordLength)
	}

	charset := opts.charset()
	var sb strings.Builder
	sb.Grow(opts.Length)
	for i := 0; i < opts.Length; i++ {
		idx, err := randIndex(len(charset))
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		sb.WriteByte(charset[idx])
	}
	return sb.String(), nil
}

func (o PasswordOptions) charset() string {
	var cs string
	if o.Upper {
		cs += upperChars
	}
	if o.Lower {
		cs += lowerChars
	}
	if o.Digits {
		cs += digitChars
	}
	if o.Symbols {
		cs += symbolChars
	}
	if cs == "" {
		cs = lowerChars
	}
	return cs
}
