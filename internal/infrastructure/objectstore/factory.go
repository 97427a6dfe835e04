package objectstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Backend names
const (
	BackendGCS  = "gcs"
	BackendS3   = "s3"
	BackendFile = "file"
)

// Config selects and configures a backend
type Config struct {
	Backend            string
	Bucket             string
	GCSCredentialsFile string
	LocalDir           string
	S3                 S3Config
}

// New builds the configured store
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case BackendGCS, "":
		return NewGCSStore(ctx, cfg.Bucket, cfg.GCSCredentialsFile, logger)
	case BackendS3:
		s3cfg := cfg.S3
		if s3cfg.Bucket == "" {
			s3cfg.Bucket = cfg.Bucket
		}
		return NewS3Store(ctx, s3cfg, logger)
	case BackendFile:
		return NewFileStore(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
