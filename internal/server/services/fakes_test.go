package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/server/config"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/records"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		BcryptCost:                  bcrypt.MinCost,
	}
}

// fakeManager lets a test swap in failing repositories.
type fakeManager struct {
	repomanager.RepositoryManager
	users   users.Repository
	records records.Repository
}

func (f *fakeManager) Users() users.Repository     { return f.users }
func (f *fakeManager) Records() records.Repository { return f.records }

type fakeUsersRepo struct {
	users.Repository
	err error
}

func (f *fakeUsersRepo) Create(context.Context, *models.User) (*models.User, error) {
	return nil, f.err
}
func (f *fakeUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, f.err
}
func (f *fakeUsersRepo) GetByID(context.Context, string) (*models.User, error) {
	return nil, f.err
}

type fakeRecordsRepo struct {
	records.Repository
	err error
}

func (f *fakeRecordsRepo) Create(context.Context, *models.Record) (*models.Record, error) {
	return nil, f.err
}
func (f *fakeRecordsRepo) ListByUser(context.Context, string) ([]*models.Record, error) {
	return nil, f.err
}
func (f *fakeRecordsRepo) Update(context.Context, *models.Record) (*models.Record, error) {
	return nil, f.err
}
func (f *fakeRecordsRepo) Delete(context.Context, string, string) error {
	return f.err
}
