package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

// snapshotID is the fixed primary key of the single snapshot row.
// The store is a whole-state snapshot, so there is never more than one row.
const snapshotID = 1

// SnapshotBackend stores the serialized store state in one table row.
type SnapshotBackend struct {
	conn *Connection
}

// NewSnapshotBackend creates the backend and ensures the snapshot table
// exists.
func NewSnapshotBackend(ctx context.Context, conn *Connection) (*SnapshotBackend, error) {
	b := &SnapshotBackend{conn: conn}
	if err := b.migrate(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// migrate creates the snapshot table if it does not exist.
func (b *SnapshotBackend) migrate(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS store_snapshots (
			id       INT PRIMARY KEY,
			data     BYTEA NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := b.conn.Pool().Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: create snapshot table: %w", err)
	}
	return nil
}

// Load reads the snapshot row. A missing row means no snapshot.
func (b *SnapshotBackend) Load(ctx context.Context) ([]byte, error) {
	const query = `SELECT data FROM store_snapshots WHERE id = $1`

	var data []byte
	err := b.conn.Pool().QueryRow(ctx, query, snapshotID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: load snapshot: %w", err)
	}
	return data, nil
}

// Save upserts the snapshot row. The row replacement is transactional on
// the server, so a reader never sees a torn snapshot.
func (b *SnapshotBackend) Save(ctx context.Context, blob []byte) error {
	const query = `
		INSERT INTO store_snapshots (id, data, saved_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, saved_at = now()
	`
	if _, err := b.conn.Pool().Exec(ctx, query, snapshotID, blob); err != nil {
		return fmt.Errorf("postgres: save snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (b *SnapshotBackend) Close() error {
	b.conn.Close()
	return nil
}
