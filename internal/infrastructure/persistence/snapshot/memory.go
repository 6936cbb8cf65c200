package snapshot

import (
	"context"
	"sync"

	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

// MemoryBackend keeps the snapshot in process memory. It provides no
// durability across restarts and exists for tests and throwaway
// development stores.
type MemoryBackend struct {
	mu     sync.Mutex
	blob   []byte
	saves  int
	closed bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load returns the last saved blob, or shared.ErrNoSnapshot before any save.
func (b *MemoryBackend) Load(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, shared.ErrBackendClosed
	}
	if b.blob == nil {
		return nil, shared.ErrNoSnapshot
	}
	out := make([]byte, len(b.blob))
	copy(out, b.blob)
	return out, nil
}

// Save replaces the stored blob.
func (b *MemoryBackend) Save(_ context.Context, blob []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return shared.ErrBackendClosed
	}
	b.blob = make([]byte, len(blob))
	copy(b.blob, blob)
	b.saves++
	return nil
}

// SaveCount returns how many saves have happened. Test helper.
func (b *MemoryBackend) SaveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

// Close marks the backend closed.
func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

var _ Backend = (*MemoryBackend)(nil)
