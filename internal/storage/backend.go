package storage

import (
	"boxdiff/internal/env"
	"context"
	"fmt"
)

// New builds the backend named by STORAGE_BACKEND-style values ("file" or "s3")
// from DIRECTORY and S3_BUCKET.
func New(ctx context.Context, backend string) (Storage, error) {
	switch backend {
	case "file":
		return NewFileStorage(ctx, FileConfig{
			Directory: env.OrDefault("DIRECTORY", "/tmp"),
		})
	case "s3":
		return NewS3Storage(ctx, S3Config{
			Bucket: env.OrDefault("S3_BUCKET", ""),
		})
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
