// Package storage keeps roster snapshots on a filesystem.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Store reads and writes whole blobs by path. RosterStore keeps its
// snapshots behind it.
type Store interface {
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// AferoStore is a Store over any afero filesystem: the OS in production and
// a MemMapFs in tests.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore creates a new AferoStore.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// Save writes reader to path, creating parent directories. The content is
// written to a temporary file first and renamed into place.
func (s *AferoStore) Save(_ context.Context, path string, reader io.Reader) (int64, error) {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	tmp := path + ".tmp"
	f, err := s.fs.Create(tmp)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, reader)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(tmp)
		return 0, err
	}
	return n, s.fs.Rename(tmp, path)
}

// Open opens path for reading.
func (s *AferoStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return s.fs.OpenFile(path, os.O_RDONLY, 0)
}

// Delete removes path.
func (s *AferoStore) Delete(_ context.Context, path string) error {
	return s.fs.Remove(path)
}
