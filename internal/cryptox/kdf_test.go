package cryptox

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

var testSalt = []byte{0x0a, 0x1b, 0x2c, 0x3d, 0x4e, 0x5f, 0x60, 0x71, 0x82, 0x93, 0xa4, 0xb5, 0xc6, 0xd7, 0xe8, 0xf9}

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("Tr0ub4dor&3")

	key1, err := DeriveKey(password, testSalt)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	key2, err := DeriveKey(password, testSalt)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	if len(key1) != KeySize {
		t.Errorf("expected %d-byte key, got %d", KeySize, len(key1))
	}

	// PBKDF2-HMAC-SHA256, 100000 iterations
	expectedHex := "1612ddb6a3622752ce471a7a43ffb2060eac3424ebf28b300bc1843a49f88cd9"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	salt2 := append([]byte(nil), testSalt...)
	salt2[0] ^= 0xff

	a, _ := DeriveKey([]byte("secret-password"), testSalt)
	b, _ := DeriveKey([]byte("secret-password"), salt2)
	c, _ := DeriveKey([]byte("secret-passwore"), testSalt)

	if bytes.Equal(a, b) {
		t.Errorf("expected different results for different salts, got same")
	}
	if bytes.Equal(a, c) {
		t.Errorf("expected different results for different passphrases, got same")
	}
}

func TestDeriveKey_RejectsBadSaltLength(t *testing.T) {
	for _, n := range []int{0, 15, 17, 32} {
		_, err := DeriveKey([]byte("pw"), make([]byte, n))
		if !errors.Is(err, common.ErrInvalidInputLength) {
			t.Errorf("salt len %d: want ErrInvalidInputLength, got %v", n, err)
		}
	}
}

func TestDeriveKeyContext_MatchesDeriveKey(t *testing.T) {
	want, _ := DeriveKey([]byte("Tr0ub4dor&3"), testSalt)

	got, err := DeriveKeyContext(context.Background(), []byte("Tr0ub4dor&3"), testSalt)
	if err != nil {
		t.Fatalf("DeriveKeyContext error: %v", err)
	}
	if !bytes.Equal(want, got) {
		t.Errorf("context derivation differs from direct derivation")
	}
}

func TestDeriveKeyContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	key, err := DeriveKeyContext(ctx, []byte("pw"), testSalt)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if key != nil {
		t.Fatalf("expected no key on cancel")
	}
}

func TestDeriveKeyContext_BadSalt(t *testing.T) {
	_, err := DeriveKeyContext(context.Background(), []byte("pw"), []byte("short"))
	if !errors.Is(err, common.ErrInvalidInputLength) {
		t.Fatalf("want ErrInvalidInputLength, got %v", err)
	}
}

func TestGenerateSalt(t *testing.T) {
	a, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	b, _ := GenerateSalt()
	if len(a) != SaltSize || len(b) != SaltSize {
		t.Fatalf("unexpected salt lengths: %d, %d", len(a), len(b))
	}
	if bytes.Equal(a, b) {
		t.Errorf("two salts are identical")
	}
}

func TestGenerateSalt_RandError(t *testing.T) {
	orig := randRead
	randRead = func([]byte) (int, error) { return 0, errors.New("entropy exhausted") }
	t.Cleanup(func() { randRead = orig })

	if _, err := GenerateSalt(); err == nil {
		t.Fatal("expected error")
	}
}
