package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// minCiphertextSize is the GCM tag length; anything shorter cannot be a
// sealed record.
const minCiphertextSize = 16

// RecordService stores sealed records on behalf of their owner. The server
// never sees plaintext; it only checks shapes.
type RecordService struct {
	repomanager repomanager.RepositoryManager
}

func NewRecordService(m repomanager.RepositoryManager) *RecordService {
	return &RecordService{repomanager: m}
}

func (s *RecordService) Create(ctx context.Context, userID string, ciphertext, nonce []byte) (*models.Record, error) {
	if err := checkSealed(ciphertext, nonce); err != nil {
		return nil, err
	}

	rec, err := s.repomanager.Records().Create(ctx, &models.Record{UserID: userID, Ciphertext: ciphertext, Nonce: nonce})
	if err != nil {
		return nil, fmt.Errorf("error creating record: %w", err)
	}
	return rec, nil
}

// List returns the owner's records, newest first.
func (s *RecordService) List(ctx context.Context, userID string) ([]*models.Record, error) {
	list, err := s.repomanager.Records().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}
	return list, nil
}

// Update replaces the sealed payload of a record. Records owned by someone
// else, and ids that are not UUIDs, are common.ErrorNotFound.
func (s *RecordService) Update(ctx context.Context, userID, id string, ciphertext, nonce []byte) (*models.Record, error) {
	if err := checkSealed(ciphertext, nonce); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	rec, err := s.repomanager.Records().Update(ctx, &models.Record{ID: id, UserID: userID, Ciphertext: ciphertext, Nonce: nonce})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating record: %w", err)
	}
	return rec, nil
}

func (s *RecordService) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	if err := s.repomanager.Records().Delete(ctx, userID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting record: %w", err)
	}
	return nil
}

func checkSealed(ciphertext, nonce []byte) error {
	if len(nonce) != cryptox.NonceSize {
		return fmt.Errorf("%w: nonce must be %d bytes", common.ErrorValidation, cryptox.NonceSize)
	}
	if len(ciphertext) < minCiphertextSize {
		return fmt.Errorf("%w: ciphertext too short", common.ErrorValidation)
	}
	return nil
}
