package filestore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/server/config"
)

// New returns the backend selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendLocal:
		s, err := NewLocalStore(cfg.StorageRoot)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorageBackendS3:
		s, err := NewS3Store(ctx, S3Config{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Bucket:       cfg.S3Bucket,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
