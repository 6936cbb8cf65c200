package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

// FileBackend stores the snapshot in a single file on local disk.
//
// Saves go through a temp file in the same directory followed by a rename,
// so a crash mid-write leaves the previous snapshot intact.
type FileBackend struct {
	mu     sync.Mutex
	path   string
	closed bool
}

// NewFileBackend creates a file backend writing to path. The parent
// directory is created if missing.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		return nil, shared.NewDomainError("snapshot", "NewFileBackend", shared.ErrInvalidInput, "empty path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	return &FileBackend{path: path}, nil
}

// Load reads the snapshot file. A missing file means no snapshot.
func (b *FileBackend) Load(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, shared.ErrBackendClosed
	}

	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, shared.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", b.path, err)
	}
	if len(data) == 0 {
		// A zero-length file is an interrupted first save.
		return nil, shared.ErrNoSnapshot
	}
	return data, nil
}

// Save writes blob to a temp file and renames it over the snapshot path.
func (b *FileBackend) Save(_ context.Context, blob []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return shared.ErrBackendClosed
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), filepath.Base(b.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(blob); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}

	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot %s: %w", b.path, err)
	}
	return nil
}

// Close marks the backend closed. The snapshot file is left in place.
func (b *FileBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

var _ Backend = (*FileBackend)(nil)
