package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRemote = errors.New("remote backend down")

func failing(context.Context) error { return errRemote }

func succeeding(context.Context) error { return nil }

func TestOpensAfterFailureThreshold(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(ctx, failing), errRemote)
	}
	assert.True(t, cb.IsOpen())

	// While open, callers fail fast without touching the backend.
	called := false
	err := cb.Execute(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestHalfOpenRecovery(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(1),
		WithTimeout(10*time.Millisecond),
	)
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	require.True(t, cb.IsOpen())

	time.Sleep(20 * time.Millisecond)

	// The first probe after the timeout is allowed through; its success
	// closes the circuit again.
	require.NoError(t, cb.Execute(ctx, succeeding))
	assert.True(t, cb.IsClosed())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithTimeout(10*time.Millisecond),
	)
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	time.Sleep(20 * time.Millisecond)

	require.Error(t, cb.Execute(ctx, failing))
	assert.True(t, cb.IsOpen())
}

func TestStateChangeCallback(t *testing.T) {
	var transitions []string
	cb := New("test",
		WithFailureThreshold(1),
		WithOnStateChange(func(name string, from, to State) {
			transitions = append(transitions, from.String()+">"+to.String())
		}),
	)

	require.Error(t, cb.Execute(context.Background(), failing))
	assert.Equal(t, []string{"closed>open"}, transitions)
}

func TestIsFailureFilter(t *testing.T) {
	benign := errors.New("no snapshot yet")
	cb := New("test",
		WithFailureThreshold(1),
		WithIsFailure(func(err error) bool { return !errors.Is(err, benign) }),
	)

	// A filtered error propagates but does not trip the breaker.
	err := cb.Execute(context.Background(), func(context.Context) error { return benign })
	assert.ErrorIs(t, err, benign)
	assert.True(t, cb.IsClosed())
}

func TestExecuteWithFallback(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))

	var fellBack bool
	err := cb.ExecuteWithFallback(ctx, failing, func(error) error {
		fellBack = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, fellBack)
}

func TestReset(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))
	require.Error(t, cb.Execute(context.Background(), failing))
	require.True(t, cb.IsOpen())

	cb.Reset()
	assert.True(t, cb.IsClosed())
	assert.Equal(t, Counts{}, cb.Counts())
}
