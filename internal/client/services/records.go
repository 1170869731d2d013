package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/client/client"
	"github.com/dmitrijs2005/gophvault/internal/client/models"
	"github.com/dmitrijs2005/gophvault/internal/client/session"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

// ListResult is a decrypted listing. Skipped counts records that could not
// be opened with the session key.
type ListResult struct {
	Views   []models.RecordView
	Skipped int
}

// RecordService seals records before they leave the process and opens them
// after they arrive. Every method needs an active session.
type RecordService interface {
	Add(ctx context.Context, r models.Record) (models.RecordView, error)
	List(ctx context.Context) (ListResult, error)
	Search(ctx context.Context, query string) (ListResult, error)
	Get(ctx context.Context, id string) (models.RecordView, error)
	Update(ctx context.Context, id string, r models.Record) (models.RecordView, error)
	Delete(ctx context.Context, id string) error
}

type recordService struct {
	client  client.Client
	session *session.Manager
	logger  logging.Logger
}

func NewRecordService(c client.Client, m *session.Manager, logger logging.Logger) RecordService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &recordService{client: c, session: m, logger: logger}
}

func (s *recordService) Add(ctx context.Context, r models.Record) (models.RecordView, error) {
	ct, nonce, err := s.seal(r)
	if err != nil {
		return models.RecordView{}, err
	}
	sr, err := s.client.CreateRecord(ctx, ct, nonce)
	if err != nil {
		return models.RecordView{}, fmt.Errorf("create record: %w", err)
	}
	return view(sr, r), nil
}

func (s *recordService) List(ctx context.Context) (ListResult, error) {
	if err := s.requireKey(); err != nil {
		return ListResult{}, err
	}
	sealed, err := s.client.ListRecords(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("list records: %w", err)
	}

	res := ListResult{Views: make([]models.RecordView, 0, len(sealed))}
	err = s.session.WithKey(func(key []byte) error {
		for _, sr := range sealed {
			r, err := openRecord(sr, key)
			if err != nil {
				s.logger.Warn(ctx, "record skipped", "id", sr.ID, "error", err)
				res.Skipped++
				continue
			}
			res.Views = append(res.Views, view(sr, r))
		}
		return nil
	})
	if err != nil {
		return ListResult{}, err
	}
	return res, nil
}

func (s *recordService) Search(ctx context.Context, query string) (ListResult, error) {
	res, err := s.List(ctx)
	if err != nil {
		return ListResult{}, err
	}
	res.Views = models.Filter(res.Views, query)
	return res, nil
}

// Get returns one record of the listing. A record that exists but cannot be
// opened is reported as common.ErrAuthenticationFailed.
func (s *recordService) Get(ctx context.Context, id string) (models.RecordView, error) {
	if err := s.requireKey(); err != nil {
		return models.RecordView{}, err
	}
	sealed, err := s.client.ListRecords(ctx)
	if err != nil {
		return models.RecordView{}, fmt.Errorf("list records: %w", err)
	}
	for _, sr := range sealed {
		if sr.ID != id {
			continue
		}
		var r models.Record
		err := s.session.WithKey(func(key []byte) error {
			var err error
			r, err = openRecord(sr, key)
			return err
		})
		if err != nil {
			return models.RecordView{}, err
		}
		return view(sr, r), nil
	}
	return models.RecordView{}, client.ErrNotFound
}

func (s *recordService) Update(ctx context.Context, id string, r models.Record) (models.RecordView, error) {
	ct, nonce, err := s.seal(r)
	if err != nil {
		return models.RecordView{}, err
	}
	sr, err := s.client.UpdateRecord(ctx, id, ct, nonce)
	if err != nil {
		return models.RecordView{}, fmt.Errorf("update record: %w", err)
	}
	return view(sr, r), nil
}

func (s *recordService) Delete(ctx context.Context, id string) error {
	if err := s.requireKey(); err != nil {
		return err
	}
	if err := s.client.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

func (s *recordService) requireKey() error {
	return s.session.WithKey(func([]byte) error { return nil })
}

// seal encodes and encrypts r under the session key. The network call is
// made by the caller, outside the key lock.
func (s *recordService) seal(r models.Record) (ciphertext, nonce []byte, err error) {
	plain, err := models.EncodeRecord(r)
	if err != nil {
		return nil, nil, err
	}
	defer common.WipeByteArray(plain)

	err = s.session.WithKey(func(key []byte) error {
		var serr error
		ciphertext, nonce, serr = cryptox.Seal(plain, key)
		return serr
	})
	if err != nil {
		return nil, nil, err
	}
	return ciphertext, nonce, nil
}

func openRecord(sr *models.SealedRecord, key []byte) (models.Record, error) {
	plain, err := cryptox.Open(sr.Ciphertext, sr.Nonce, key)
	if err != nil {
		return models.Record{}, err
	}
	defer common.WipeByteArray(plain)
	return models.DecodeRecord(plain)
}

func view(sr *models.SealedRecord, r models.Record) models.RecordView {
	return models.RecordView{ID: sr.ID, Record: r, CreatedAt: sr.CreatedAt, UpdatedAt: sr.UpdatedAt}
}
