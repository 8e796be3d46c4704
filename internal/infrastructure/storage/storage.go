// Package storage provides object storage for acceptance photos and
// product images.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/orderhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ObjectStorage is the interface application services use for photo and
// image files. Uploads go through presigned URLs so file bytes never pass
// through the API services.
type ObjectStorage interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// NewFromConfig creates an ObjectStorage based on the configured provider
func NewFromConfig(cfg *config.StorageConfig, logger *zap.Logger) (ObjectStorage, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3ObjectStorage(cfg, WithLogger(logger))
	case "stub", "":
		logger.Warn("using stub object storage, uploaded files are not persisted")
		return NewStubObjectStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}
