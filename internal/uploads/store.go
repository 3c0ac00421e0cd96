package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ObjectStore persists uploaded bytes under a generated name.
type ObjectStore interface {
	Put(ctx context.Context, name string, data []byte) error
}

// DiskStore writes uploads into a local directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates dir when missing.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid object name %q", name)
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}
