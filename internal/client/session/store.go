package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

// Store keeps the exported session between reloads. Implementations must be
// volatile: process memory only, never disk and never the network.
type Store interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
	Clear(ctx context.Context) error
}

// MemoryStore is a Store living in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	common.WipeByteArray(s.data)
	s.data = append([]byte(nil), data...)
	return nil
}

// Load returns a copy of the stored snapshot or common.ErrorNotFound.
func (s *MemoryStore) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, common.ErrorNotFound
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	common.WipeByteArray(s.data)
	s.data = nil
	return nil
}
