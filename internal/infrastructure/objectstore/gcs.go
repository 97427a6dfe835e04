package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

var _ Store = (*GCSStore)(nil)

// GCSStore reads objects through the Cloud Storage JSON API
type GCSStore struct {
	client *storage.Client
	bucket string
	logger *zap.Logger
}

// NewGCSStore creates a client using the credentials file when given, or the
// application default credentials otherwise
func NewGCSStore(ctx context.Context, bucket, credentialsFile string, logger *zap.Logger) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStore{client: client, bucket: bucket, logger: logger.Named("gcs")}, nil
}

// Bucket returns the bucket name
func (s *GCSStore) Bucket() string { return s.bucket }

// List returns the objects under prefix
func (s *GCSStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	query := &storage.Query{Prefix: prefix}
	if err := query.SetAttrSelection([]string{"Name", "Size", "Updated"}); err != nil {
		return nil, fmt.Errorf("failed to select object attributes: %w", err)
	}

	var objects []ObjectInfo
	it := s.client.Bucket(s.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list gs://%s/%s: %w", s.bucket, prefix, err)
		}
		objects = append(objects, ObjectInfo{Key: attrs.Name, Size: attrs.Size, Updated: attrs.Updated})
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	s.logger.Debug("Listed objects",
		zap.String("bucket", s.bucket),
		zap.String("prefix", prefix),
		zap.Int("count", len(objects)),
	)
	return objects, nil
}

// Open streams an object
func (s *GCSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("gs://%s/%s: %w", s.bucket, key, ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", s.bucket, key, err)
	}
	return r, nil
}

// Close releases the client
func (s *GCSStore) Close() error {
	return s.client.Close()
}
