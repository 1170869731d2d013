package common

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWipeByteArray(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	require.Equal(t, make([]byte, 5), buf)

	require.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestWipeByteArray_SharedBacking(t *testing.T) {
	key := []byte("0123456789abcdef")
	view := key[4:8]
	WipeByteArray(view)
	require.Equal(t, []byte("0123\x00\x00\x00\x0089abcdef"), key)
}

func TestGenerateRandByteArray(t *testing.T) {
	a, err := GenerateRandByteArray(32)
	require.NoError(t, err)
	b, err := GenerateRandByteArray(32)
	require.NoError(t, err)
	require.Len(t, a, 32)
	require.Len(t, b, 32)
	require.False(t, bytes.Equal(a, b))

	empty, err := GenerateRandByteArray(0)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestGenerateRandByteArray_ReadError(t *testing.T) {
	orig := randRead
	t.Cleanup(func() { randRead = orig })
	boom := errors.New("entropy source closed")
	randRead = func([]byte) (int, error) { return 0, boom }

	b, err := GenerateRandByteArray(16)
	require.ErrorIs(t, err, boom)
	require.Nil(t, b)
}
