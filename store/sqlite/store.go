package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/tokenledger"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/snapshot"
	ledgerstore "github.com/xraph/tokenledger/store"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM. Snapshot IDs are
// K-sortable, so "latest" is simply the largest ID.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("tokenledger/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("tokenledger/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	if snap == nil || snap.ID.IsNil() {
		return tokenledger.ErrInvalidSnapshot
	}
	m := toSnapshotModel(snap)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	m := new(snapshotModel)
	err := s.sdb.NewSelect(m).
		OrderExpr("id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, tokenledger.ErrNoSnapshot
		}
		return nil, err
	}
	return fromSnapshotModel(m)
}

func (s *Store) Get(ctx context.Context, snapID id.SnapshotID) (*snapshot.Snapshot, error) {
	m := new(snapshotModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", snapID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, tokenledger.ErrNoSnapshot
		}
		return nil, err
	}
	return fromSnapshotModel(m)
}

func (s *Store) List(ctx context.Context, limit int) ([]id.SnapshotID, error) {
	var models []snapshotModel
	q := s.sdb.NewSelect(&models).OrderExpr("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	ids := make([]id.SnapshotID, len(models))
	for i := range models {
		snapID, err := id.ParseSnapshotID(models[i].ID)
		if err != nil {
			return nil, err
		}
		ids[i] = snapID
	}
	return ids, nil
}

func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	ids, err := s.List(ctx, 0)
	if err != nil {
		return 0, err
	}
	if len(ids) <= keep {
		return 0, nil
	}

	// ids is newest-first; everything past the keep boundary goes.
	q := s.sdb.NewDelete((*snapshotModel)(nil))
	if keep == 0 {
		q = q.Where("id <= ?", ids[0].String())
	} else {
		q = q.Where("id < ?", ids[keep-1].String())
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
