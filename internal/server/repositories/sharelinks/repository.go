// Package sharelinks declares the server-side repository contract for
// anonymous share links in persistent storage.
package sharelinks

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// Repository defines operations for minting, resolving and revoking share links.
type Repository interface {
	// Create stores a new link row.
	Create(ctx context.Context, link *models.ShareLink) error

	// FindByToken resolves a token together with the file it points at.
	// Implementations return common.ErrorNotFound when the token is absent.
	FindByToken(ctx context.Context, token string) (*models.SharedFile, error)

	// Delete removes a link by its token. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByFileID removes every link for fileID and reports how many went.
	DeleteByFileID(ctx context.Context, fileID string) (int64, error)

	// ListByFile returns all links for fileID, newest first.
	ListByFile(ctx context.Context, fileID string) ([]*models.ShareLink, error)
}
