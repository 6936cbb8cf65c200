package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func TestDoRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	r := New(WithMaxAttempts(5), WithInitialDelay(time.Millisecond))

	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return Retryable(errFlaky)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestPlainErrorsAreNotRetriedByDefault(t *testing.T) {
	attempts := 0
	r := New(WithMaxAttempts(5), WithInitialDelay(time.Millisecond))

	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		return errFlaky
	})

	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, attempts, "only errors marked Retryable are retried without a RetryIf filter")
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	r := New(WithMaxAttempts(2), WithInitialDelay(time.Millisecond))

	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		return Retryable(errFlaky)
	})

	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 2, attempts)
}

func TestPermanentErrorStopsRetries(t *testing.T) {
	attempts := 0
	r := New(WithMaxAttempts(5), WithInitialDelay(time.Millisecond))

	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		return Permanent(errFlaky)
	})

	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, attempts)
}

func TestRetryIfFilter(t *testing.T) {
	attempts := 0
	r := New(
		WithMaxAttempts(5),
		WithInitialDelay(time.Millisecond),
		WithRetryIf(func(err error) bool { return !errors.Is(err, errFlaky) }),
	)

	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		return errFlaky
	})

	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, attempts)
}

func TestDoRespectsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(WithMaxAttempts(10), WithInitialDelay(50*time.Millisecond))

	// Cancel during the first attempt: no further attempts run and the
	// operation's own error comes back, not a bare context error.
	attempts := 0
	err := r.Do(ctx, func(context.Context) error {
		attempts++
		cancel()
		return Retryable(errFlaky)
	})

	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, attempts)
}

func TestDoWithData(t *testing.T) {
	attempts := 0
	got, err := DoWithData(context.Background(), func(context.Context) (string, error) {
		attempts++
		if attempts < 2 {
			return "", Retryable(errFlaky)
		}
		return "ok", nil
	}, WithMaxAttempts(3), WithInitialDelay(time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}
