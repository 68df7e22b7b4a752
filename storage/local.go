package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore writes files under a base directory on local disk.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(_ context.Context, key, _ string, r io.Reader) error {
	path := filepath.Join(s.dir, filepath.Base(key))

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(path)
		return fmt.Errorf("error saving file content: %w", err)
	}
	return nil
}

func (s *LocalStore) Remove(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(_ context.Context, key string) (string, error) {
	return "/uploads/" + filepath.Base(key), nil
}

// Dir exposes the base directory for static file serving.
func (s *LocalStore) Dir() string { return s.dir }
