package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

func TestFileBackendEmptyPath(t *testing.T) {
	_, err := NewFileBackend("")
	assert.Error(t, err)
}

func TestFileBackendNoSnapshot(t *testing.T) {
	b, err := NewFileBackend(filepath.Join(t.TempDir(), "snap.json"))
	require.NoError(t, err)

	_, err = b.Load(context.Background())
	assert.ErrorIs(t, err, shared.ErrNoSnapshot)
}

func TestFileBackendZeroLengthFileIsNoSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	b, err := NewFileBackend(path)
	require.NoError(t, err)

	_, err = b.Load(context.Background())
	assert.ErrorIs(t, err, shared.ErrNoSnapshot)
}

func TestFileBackendSaveLoadOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	b, err := NewFileBackend(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, []byte(`{"version":1}`)))
	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"version":1}`), got)

	require.NoError(t, b.Save(ctx, []byte(`{"version":1,"users":[]}`)))
	got, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"version":1,"users":[]}`), got)
}

func TestFileBackendCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "snap.json")
	b, err := NewFileBackend(path)
	require.NoError(t, err)

	require.NoError(t, b.Save(context.Background(), []byte("x")))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileBackendLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(filepath.Join(dir, "snap.json"))
	require.NoError(t, err)

	require.NoError(t, b.Save(context.Background(), []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "snap.json", entries[0].Name())
}

func TestFileBackendClosed(t *testing.T) {
	b, err := NewFileBackend(filepath.Join(t.TempDir(), "snap.json"))
	require.NoError(t, err)
	require.NoError(t, b.Close())

	_, err = b.Load(context.Background())
	assert.ErrorIs(t, err, shared.ErrBackendClosed)
	assert.ErrorIs(t, b.Save(context.Background(), nil), shared.ErrBackendClosed)
}

func TestMemoryBackendRoundTrip(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	_, err := b.Load(ctx)
	assert.ErrorIs(t, err, shared.ErrNoSnapshot)

	require.NoError(t, b.Save(ctx, []byte("one")))
	require.NoError(t, b.Save(ctx, []byte("two")))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
	assert.Equal(t, 2, b.SaveCount())
}
