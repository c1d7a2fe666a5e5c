package store

import (
	"context"

	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/snapshot"
)

// Store persists ledger snapshots. The ledger core treats the store as a
// checkpoint sink: each Save writes a complete, self-contained snapshot and
// Load returns the most recent one. Backends never need to understand token
// semantics beyond the snapshot shape.
type Store interface {
	// Save persists a snapshot. Snapshots are append-only; Save never
	// overwrites an earlier one.
	Save(ctx context.Context, snap *snapshot.Snapshot) error

	// Load returns the most recent snapshot, or an error the caller can
	// match against the ledger's no-snapshot sentinel when the store is
	// empty.
	Load(ctx context.Context) (*snapshot.Snapshot, error)

	// Get returns a specific snapshot by ID.
	Get(ctx context.Context, snapID id.SnapshotID) (*snapshot.Snapshot, error)

	// List returns snapshot IDs in reverse chronological order, newest
	// first, up to limit. A limit of 0 means no limit.
	List(ctx context.Context, limit int) ([]id.SnapshotID, error)

	// Prune deletes all but the newest keep snapshots and returns how many
	// were removed.
	Prune(ctx context.Context, keep int) (int64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
