package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps resume files under a root directory on disk. It is the
// default backend for development and single-node deployments.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &StorageError{Op: "init", Key: root, Cause: err}
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *LocalStore) Save(ctx context.Context, key string, data []byte) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return &StorageError{Op: "save", Key: key, Cause: err}
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return &StorageError{Op: "save", Key: key, Cause: err}
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	return getWithRetry(ctx, key, func() ([]byte, error) {
		return os.ReadFile(s.path(key))
	})
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &StorageError{Op: "delete", Key: key, Cause: err}
	}
	return nil
}

// URL returns the absolute file path; there is nothing to presign locally.
func (s *LocalStore) URL(ctx context.Context, key string) (string, error) {
	abs, err := filepath.Abs(s.path(key))
	if err != nil {
		return "", &StorageError{Op: "url", Key: key, Cause: err}
	}
	return abs, nil
}
