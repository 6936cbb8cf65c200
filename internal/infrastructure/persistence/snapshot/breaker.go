package snapshot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
	"github.com/intern-hub/intern-portal-hub/pkg/circuitbreaker"
)

// BreakerBackend wraps a remote backend with a circuit breaker so a dead
// Redis or Postgres does not stall every mutation on connection timeouts.
// While the circuit is open, saves fail fast; the store already logs and
// swallows save failures, so the live view is unaffected.
type BreakerBackend struct {
	inner   Backend
	breaker *circuitbreaker.CircuitBreaker
}

// WithBreaker wraps backend with the given circuit breaker.
func WithBreaker(backend Backend, cb *circuitbreaker.CircuitBreaker) *BreakerBackend {
	return &BreakerBackend{inner: backend, breaker: cb}
}

// StateChangeLogger returns an OnStateChange callback logging transitions.
func StateChangeLogger(logger *slog.Logger) func(name string, from, to circuitbreaker.State) {
	return func(name string, from, to circuitbreaker.State) {
		logger.Warn("snapshot backend circuit state changed",
			"breaker", name, "from", from.String(), "to", to.String())
	}
}

func (b *BreakerBackend) Load(ctx context.Context) ([]byte, error) {
	var (
		blob    []byte
		loadErr error
	)
	err := b.breaker.Execute(ctx, func(ctx context.Context) error {
		blob, loadErr = b.inner.Load(ctx)
		// An absent snapshot means the backend answered fine.
		if errors.Is(loadErr, shared.ErrNoSnapshot) {
			return nil
		}
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	if loadErr != nil {
		return nil, loadErr
	}
	return blob, nil
}

func (b *BreakerBackend) Save(ctx context.Context, blob []byte) error {
	return b.breaker.Execute(ctx, func(ctx context.Context) error {
		return b.inner.Save(ctx, blob)
	})
}

func (b *BreakerBackend) Close() error {
	return b.inner.Close()
}

var _ Backend = (*BreakerBackend)(nil)
