// Package storage persists uploaded bill photos. The backing store (local
// disk or S3) is chosen once at startup from configuration.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/vapeguard/insurance-api/config"
)

// Store writes, removes and resolves uploaded files by key.
type Store interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) error
	Remove(ctx context.Context, key string) error
	// URL returns a fetchable location for the key: a local path under
	// /uploads/ or a presigned S3 URL.
	URL(ctx context.Context, key string) (string, error)
}

// NewStore selects the configured driver.
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "local", "":
		return NewLocalStore(cfg.UploadDir)
	case "s3":
		return NewS3Store(cfg.AWSRegion, cfg.AWSBucketName)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
