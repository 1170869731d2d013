// Package records provides repositories for sealed credential records.
package records

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/server/models"
)

// Repository stores records per owner. Update and Delete match on both the
// record id and the owner; a miss on either is common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, r *models.Record) (*models.Record, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Record, error)
	Update(ctx context.Context, r *models.Record) (*models.Record, error)
	Delete(ctx context.Context, userID, id string) error
}
