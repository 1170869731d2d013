package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestMemoryStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, common.ErrorNotFound)

	src := []byte("snapshot")
	require.NoError(t, s.Save(ctx, src))
	src[0] = 'X'

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("snapshot"), got)

	got[0] = 'Y'
	again, _ := s.Load(ctx)
	require.Equal(t, []byte("snapshot"), again)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, common.ErrorNotFound)
}
