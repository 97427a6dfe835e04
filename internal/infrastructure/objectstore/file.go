package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

var _ Store = (*FileStore)(nil)

// FileStore serves objects from a local directory. Keys are slash separated
// paths relative to the root, so a downloaded bucket can be used as is.
type FileStore struct {
	root string
}

// NewFileStore returns a store rooted at dir. The directory must exist.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("storage local directory is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage path %q is not a directory", dir)
	}
	return &FileStore{root: dir}, nil
}

// Bucket returns the root directory
func (s *FileStore) Bucket() string { return s.root }

// List walks the directory containing the prefix and returns matching files
func (s *FileStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	start := filepath.Join(s.root, filepath.FromSlash(path.Dir(prefix)))
	if strings.HasSuffix(prefix, "/") {
		start = filepath.Join(s.root, filepath.FromSlash(prefix))
	}

	var objects []ObjectInfo
	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, ObjectInfo{Key: key, Size: info.Size(), Updated: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", start, err)
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// Open opens the file for key
func (s *FileStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	clean := path.Clean("/" + key)
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(clean)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	return f, nil
}

// Close is a no-op
func (s *FileStore) Close() error { return nil }
