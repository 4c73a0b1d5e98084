package batch

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/viant/afs"
)

const defaultFileMode os.FileMode = 0o644

// Store loads and persists file contents.
type Store interface {
	Load(ctx context.Context, path string) ([]byte, error)
	Save(ctx context.Context, path string, data []byte) error
}

// FileStore is a Store backed by an afs service. Plain paths address the
// local file system.
type FileStore struct {
	fs afs.Service
}

// NewFileStore creates a FileStore using the default afs service.
func NewFileStore() *FileStore {
	return &FileStore{fs: afs.New()}
}

// Load reads the whole file at path.
func (s *FileStore) Load(ctx context.Context, path string) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Save replaces the file at path, keeping its permission bits.
func (s *FileStore) Save(ctx context.Context, path string, data []byte) error {
	mode := defaultFileMode
	if obj, err := s.fs.Object(ctx, path); err == nil {
		mode = obj.Mode().Perm()
	}
	if err := s.fs.Upload(ctx, path, mode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
