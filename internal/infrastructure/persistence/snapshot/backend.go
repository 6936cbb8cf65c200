// Package snapshot defines the pluggable persistence contract for the store:
// a full serialized state document written after every mutation and read once
// at process start. Backends only need Load and Save over an opaque blob;
// the codec and collection layout belong to the store engine.
package snapshot

import (
	"context"
)

// Backend persists the store's serialized state as a single opaque blob.
//
// Save must be atomic enough that a partial write never corrupts the
// previously durable snapshot. Load returns shared.ErrNoSnapshot when no
// state has ever been saved; the engine then seeds baseline records instead
// of failing.
type Backend interface {
	// Load reads the last saved snapshot blob.
	Load(ctx context.Context) ([]byte, error)

	// Save durably replaces the snapshot with blob.
	Save(ctx context.Context, blob []byte) error

	// Close releases backend resources.
	Close() error
}
