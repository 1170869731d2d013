package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/server/repositories/dynamo"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/records"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/users"
)

// DynamoDBRepositoryManager serves both repositories from one table.
// RunMigrations creates the table when it is missing.
type DynamoDBRepositoryManager struct {
	api   dynamo.API
	table string
}

func NewDynamoDBRepositoryManager(api dynamo.API, table string) *DynamoDBRepositoryManager {
	return &DynamoDBRepositoryManager{api: api, table: table}
}

func (m *DynamoDBRepositoryManager) RunMigrations(ctx context.Context) error {
	return dynamo.EnsureTable(ctx, m.api, m.table)
}

func (m *DynamoDBRepositoryManager) Users() users.Repository {
	return users.NewDynamoDBRepository(m.api, m.table)
}

func (m *DynamoDBRepositoryManager) Records() records.Repository {
	return records.NewDynamoDBRepository(m.api, m.table)
}

func (m *DynamoDBRepositoryManager) Close() error { return nil }
