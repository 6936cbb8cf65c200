// Package redis implements a Redis-backed snapshot store for the
// Intern Portal Hub. The entire store state lives under a single key, so a
// save is one SET and a restart is one GET. Suitable for deployments that
// already run Redis and want snapshot durability without a disk volume.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// Key is the Redis key the snapshot blob lives under.
	Key string

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// MaxRetries is the maximum number of retries before giving up.
	MaxRetries int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		Key:          "intern-portal:snapshot",
		PoolSize:     10,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrConnection is returned when the Redis connection fails.
	ErrConnection = errors.New("redis: connection failed")
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT BACKEND
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotBackend stores the full state blob under a single Redis key.
type SnapshotBackend struct {
	client *redis.Client
	key    string
}

// NewSnapshotBackend connects to Redis and verifies the connection.
func NewSnapshotBackend(cfg Config) (*SnapshotBackend, error) {
	if cfg.Key == "" {
		cfg.Key = DefaultConfig().Key
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return &SnapshotBackend{client: client, key: cfg.Key}, nil
}

// Load reads the snapshot blob. A missing key means no snapshot.
func (b *SnapshotBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", b.key, err)
	}
	return data, nil
}

// Save replaces the snapshot blob. SET replaces the value atomically on the
// server side, so readers never observe a torn snapshot. No TTL: the
// snapshot must survive until the next save.
func (b *SnapshotBackend) Save(ctx context.Context, blob []byte) error {
	if err := b.client.Set(ctx, b.key, blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", b.key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (b *SnapshotBackend) Close() error {
	return b.client.Close()
}
