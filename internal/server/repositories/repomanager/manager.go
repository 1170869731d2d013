package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/server/repositories/records"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/users"
)

// RepositoryManager vends the repositories of one storage backend and owns
// its schema bootstrap and connection lifetime.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Records() records.Repository
	Close() error
}
