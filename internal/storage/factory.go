package storage

import (
	"context"
	"fmt"

	"github.com/jaki95/showcut/config"
)

// New creates the storage selected by cfg.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case config.StorageLocal, "":
		return NewLocalFileStorage(cfg.OutputDir, cfg.TempDir)
	case config.StorageGCS:
		return NewGCSStorage(ctx, cfg.Bucket, cfg.ObjectPrefix, cfg.TempDir, cfg.CredentialsFile)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, cfg.Type)
	}
}
