package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Backend persists named documents. Load of a name that was never saved
// returns ErrNotFound.
type Backend interface {
	Name() string
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Close() error
}

// FileBackend keeps one YAML file per document under dir.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (f *FileBackend) Name() string { return BackendFile }

func (f *FileBackend) path(name string) string {
	return filepath.Join(f.dir, name+".yaml")
}

func (f *FileBackend) Load(_ context.Context, name string) ([]byte, error) {
	b, err := os.ReadFile(f.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

func (f *FileBackend) Save(_ context.Context, name string, data []byte) error {
	if err := atomicWriteFile(f.path(name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (f *FileBackend) Close() error { return nil }
