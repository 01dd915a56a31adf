package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Local writes uploads under a directory on disk with uuid-derived names so
// concurrent uploads never collide.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) SaveUpload(ctx context.Context, data []byte, filename string) (StoredFile, error) {
	if len(data) == 0 {
		return StoredFile{}, fmt.Errorf("empty upload")
	}
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.New().String() + ext
	path := filepath.Join(l.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return StoredFile{}, fmt.Errorf("write upload: %w", err)
	}
	return StoredFile{Name: name, Ref: path}, nil
}
