package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/tokenledger"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/snapshot"
	ledgerstore "github.com/xraph/tokenledger/store"
)

// Collection name constants.
const (
	colSnapshots = "tokenledger_snapshots"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for the snapshot collection.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("tokenledger/mongo: migrate %s indexes: %w", col, err)
		}
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
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("tokenledger/mongo: save snapshot: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	var m snapshotModel
	err := s.mdb.NewFind(&m).
		Sort(bson.D{{Key: "_id", Value: -1}}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, tokenledger.ErrNoSnapshot
		}
		return nil, fmt.Errorf("tokenledger/mongo: load latest snapshot: %w", err)
	}
	return fromSnapshotModel(&m)
}

func (s *Store) Get(ctx context.Context, snapID id.SnapshotID) (*snapshot.Snapshot, error) {
	var m snapshotModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": snapID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, tokenledger.ErrNoSnapshot
		}
		return nil, fmt.Errorf("tokenledger/mongo: get snapshot: %w", err)
	}
	return fromSnapshotModel(&m)
}

func (s *Store) List(ctx context.Context, limit int) ([]id.SnapshotID, error) {
	var models []snapshotModel
	q := s.mdb.NewFind(&models).
		Sort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		q = q.Limit(int64(limit))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("tokenledger/mongo: list snapshots: %w", err)
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
	filter := bson.M{"_id": bson.M{"$lte": ids[0].String()}}
	if keep > 0 {
		filter = bson.M{"_id": bson.M{"$lt": ids[keep-1].String()}}
	}
	res, err := s.mdb.NewDelete((*snapshotModel)(nil)).
		Filter(filter).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("tokenledger/mongo: prune snapshots: %w", err)
	}
	return res.DeletedCount(), nil
}

// migrationIndexes returns the index definitions for the snapshot collection.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colSnapshots: {
			{Keys: bson.D{{Key: "taken_at", Value: -1}}},
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "taken_at", Value: -1}}},
		},
	}
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
