// Package objectstore lists and reads the prediction export objects from
// Google Cloud Storage, an S3-compatible endpoint or a local directory.
package objectstore

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned by Open when the key does not exist
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes one stored object
type ObjectInfo struct {
	Key     string
	Size    int64
	Updated time.Time
}

// Store is a read-only view of a bucket
type Store interface {
	// List returns the objects whose key starts with prefix, sorted by key
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// Open returns a reader for the object content. Callers must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Bucket names the bucket or directory being read
	Bucket() string
	Close() error
}
