package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
	"github.com/intern-hub/intern-portal-hub/pkg/circuitbreaker"
)

// flakyBackend fails every call until healed.
type flakyBackend struct {
	healed bool
	saves  int
}

func (b *flakyBackend) Load(context.Context) ([]byte, error) {
	if !b.healed {
		return nil, errors.New("connection refused")
	}
	return nil, shared.ErrNoSnapshot
}

func (b *flakyBackend) Save(context.Context, []byte) error {
	if !b.healed {
		return errors.New("connection refused")
	}
	b.saves++
	return nil
}

func (b *flakyBackend) Close() error { return nil }

func TestBreakerBackendFailsFastWhenOpen(t *testing.T) {
	inner := &flakyBackend{}
	cb := circuitbreaker.New("test", circuitbreaker.WithFailureThreshold(2))
	b := WithBreaker(inner, cb)
	ctx := context.Background()

	require.Error(t, b.Save(ctx, []byte("x")))
	require.Error(t, b.Save(ctx, []byte("x")))
	assert.True(t, cb.IsOpen())

	// With the circuit open the inner backend is no longer called.
	err := b.Save(ctx, []byte("x"))
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, 0, inner.saves)
}

func TestBreakerBackendNoSnapshotIsNotAFailure(t *testing.T) {
	inner := &flakyBackend{healed: true}
	cb := circuitbreaker.New("test", circuitbreaker.WithFailureThreshold(1))
	b := WithBreaker(inner, cb)

	// A fresh install loads ErrNoSnapshot repeatedly; the breaker must not
	// trip because the backend itself is answering fine.
	for i := 0; i < 5; i++ {
		_, err := b.Load(context.Background())
		assert.ErrorIs(t, err, shared.ErrNoSnapshot)
	}
	assert.True(t, cb.IsClosed())
}

func TestBreakerBackendPassesThroughWhenHealthy(t *testing.T) {
	inner := &flakyBackend{healed: true}
	b := WithBreaker(inner, circuitbreaker.New("test"))

	require.NoError(t, b.Save(context.Background(), []byte("x")))
	assert.Equal(t, 1, inner.saves)
}
