package server

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/server/config"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/dynamo"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/repomanager"
)

func newRepositoryManager(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.Storage {
	case config.StoragePostgres:
		db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return repomanager.NewPostgresRepositoryManager(db)
	case config.StorageDynamoDB:
		client, err := dynamo.NewClient(ctx, dynamo.Config{Region: c.AWSRegion, Endpoint: c.AWSEndpoint})
		if err != nil {
			return nil, err
		}
		return repomanager.NewDynamoDBRepositoryManager(client, c.DynamoTable), nil
	case config.StorageMemory:
		return repomanager.NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", c.Storage)
	}
}
