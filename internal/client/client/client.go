package client

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/client/models"
)

// Client is the backend collaborator. Calls that need a session read the
// token from the configured token source.
type Client interface {
	Close() error
	Register(ctx context.Context, email string, credential []byte) (models.Grant, error)
	Login(ctx context.Context, email string, credential []byte) (models.Grant, error)
	Verify(ctx context.Context) (models.Grant, error)
	CreateRecord(ctx context.Context, ciphertext, nonce []byte) (*models.SealedRecord, error)
	ListRecords(ctx context.Context) ([]*models.SealedRecord, error)
	UpdateRecord(ctx context.Context, id string, ciphertext, nonce []byte) (*models.SealedRecord, error)
	DeleteRecord(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
