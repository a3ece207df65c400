package files

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// Repository stores file metadata rows. All lookups that take an owner only
// match rows belonging to that owner.
type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error)
	GetByID(ctx context.Context, id string) (*models.File, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.File, error)
	Delete(ctx context.Context, id, ownerID string) error
	IncrementDownloadCount(ctx context.Context, id string) error
}
