package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/client/client"
	"github.com/dmitrijs2005/gophvault/internal/client/models"
	"github.com/dmitrijs2005/gophvault/internal/client/session"
)

// ---- fake client ----

// fakeClient is an in-memory backend that stores only what the real one
// would see: digests, sealed records and a per-account salt.
type fakeClient struct {
	mu sync.Mutex

	accounts map[string]*fakeAccount
	records  []*models.SealedRecord
	nextID   int
	now      time.Time

	current string // account id of the last successful auth

	VerifyErr       error
	VerifyAccountID string
	ListErr         error
	PingErr         error

	LastCredential []byte
	ListCalls      int
	Calls          int
}

type fakeAccount struct {
	id         string
	email      string
	credential []byte
	salt       []byte
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		accounts: map[string]*fakeAccount{},
		now:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Register(_ context.Context, email string, credential []byte) (models.Grant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastCredential = append([]byte(nil), credential...)
	if _, ok := f.accounts[email]; ok {
		return models.Grant{}, client.ErrAlreadyExists
	}
	acc := &fakeAccount{
		id:         fmt.Sprintf("acc-%d", len(f.accounts)+1),
		email:      email,
		credential: append([]byte(nil), credential...),
		salt:       bytes.Repeat([]byte{byte(len(f.accounts) + 1)}, 16),
	}
	f.accounts[email] = acc
	f.current = acc.id
	return f.grant(acc), nil
}

func (f *fakeClient) Login(_ context.Context, email string, credential []byte) (models.Grant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastCredential = append([]byte(nil), credential...)
	acc, ok := f.accounts[email]
	if !ok || !bytes.Equal(acc.credential, credential) {
		return models.Grant{}, client.ErrUnauthorized
	}
	f.current = acc.id
	return f.grant(acc), nil
}

func (f *fakeClient) Verify(context.Context) (models.Grant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.VerifyErr != nil {
		return models.Grant{}, f.VerifyErr
	}
	id := f.current
	if f.VerifyAccountID != "" {
		id = f.VerifyAccountID
	}
	return models.Grant{AccountID: id}, nil
}

func (f *fakeClient) CreateRecord(_ context.Context, ciphertext, nonce []byte) (*models.SealedRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.nextID++
	f.now = f.now.Add(time.Minute)
	sr := &models.SealedRecord{
		ID:         fmt.Sprintf("rec-%d", f.nextID),
		Ciphertext: append([]byte(nil), ciphertext...),
		Nonce:      append([]byte(nil), nonce...),
		CreatedAt:  f.now,
		UpdatedAt:  f.now,
	}
	f.records = append([]*models.SealedRecord{sr}, f.records...)
	return cloneSealed(sr), nil
}

func (f *fakeClient) ListRecords(context.Context) ([]*models.SealedRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]*models.SealedRecord, 0, len(f.records))
	for _, sr := range f.records {
		out = append(out, cloneSealed(sr))
	}
	return out, nil
}

func (f *fakeClient) UpdateRecord(_ context.Context, id string, ciphertext, nonce []byte) (*models.SealedRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	sr := f.find(id)
	if sr == nil {
		return nil, client.ErrNotFound
	}
	f.now = f.now.Add(time.Minute)
	sr.Ciphertext = append([]byte(nil), ciphertext...)
	sr.Nonce = append([]byte(nil), nonce...)
	sr.UpdatedAt = f.now
	return cloneSealed(sr), nil
}

func (f *fakeClient) DeleteRecord(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	for i, sr := range f.records {
		if sr.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return client.ErrNotFound
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

// tamper flips one ciphertext byte of the stored record.
func (f *fakeClient) tamper(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.find(id).Ciphertext[0] ^= 0xff
}

func (f *fakeClient) find(id string) *models.SealedRecord {
	for _, sr := range f.records {
		if sr.ID == id {
			return sr
		}
	}
	return nil
}

func (f *fakeClient) grant(acc *fakeAccount) models.Grant {
	return models.Grant{
		Token:     "token-" + acc.id,
		AccountID: acc.id,
		Email:     acc.email,
		Salt:      append([]byte(nil), acc.salt...),
	}
}

func cloneSealed(sr *models.SealedRecord) *models.SealedRecord {
	c := *sr
	c.Ciphertext = append([]byte(nil), sr.Ciphertext...)
	c.Nonce = append([]byte(nil), sr.Nonce...)
	return &c
}

// ---- helpers ----

// fastDerive stands in for PBKDF2 where the iteration count is irrelevant.
func fastDerive(_ context.Context, passphrase, salt []byte) ([]byte, error) {
	h := sha256.New()
	h.Write(salt)
	h.Write(passphrase)
	return h.Sum(nil), nil
}

type fixture struct {
	client  *fakeClient
	store   *session.MemoryStore
	session *session.Manager
	auth    AuthService
	records RecordService
}

func newFixture(opts ...AuthOption) *fixture {
	fc := newFakeClient()
	store := session.NewMemoryStore()
	m := session.NewManager(time.Hour, session.WithStore(store))
	return &fixture{
		client:  fc,
		store:   store,
		session: m,
		auth:    NewAuthService(fc, m, append([]AuthOption{WithKeyDeriver(fastDerive)}, opts...)...),
		records: NewRecordService(fc, m, nil),
	}
}
