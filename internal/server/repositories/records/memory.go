package records

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps records in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*models.Record
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]*models.Record),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Create(_ context.Context, rec *models.Record) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.ID = uuid.NewString()
	rec.CreatedAt = r.now()
	rec.UpdatedAt = rec.CreatedAt

	r.items[rec.ID] = clone(rec)
	return rec, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Record, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			result = append(result, clone(item))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) Update(_ context.Context, rec *models.Record) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[rec.ID]
	if !ok || item.UserID != rec.UserID {
		return nil, common.ErrorNotFound
	}
	item.Ciphertext = append([]byte(nil), rec.Ciphertext...)
	item.Nonce = append([]byte(nil), rec.Nonce...)
	item.UpdatedAt = r.now()

	return clone(item), nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.items, id)
	return nil
}

func clone(rec *models.Record) *models.Record {
	c := *rec
	c.Ciphertext = append([]byte(nil), rec.Ciphertext...)
	c.Nonce = append([]byte(nil), rec.Nonce...)
	return &c
}
