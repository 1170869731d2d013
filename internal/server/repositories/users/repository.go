// Package users provides account repositories for the backend.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/server/models"
)

// Repository persists accounts. Create returns common.ErrorAlreadyExists for a
// taken email; the getters return common.ErrorNotFound for unknown users.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
