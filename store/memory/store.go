package memory

import (
	"context"
	"sync"

	"github.com/xraph/tokenledger"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/snapshot"
)

// Store is an in-memory snapshot store. Snapshots are deep-copied on both
// Save and Load so callers can never alias the stored state. Intended for
// tests and single-process hosts that persist elsewhere.
type Store struct {
	mu     sync.RWMutex
	snaps  map[string]*snapshot.Snapshot
	order  []id.SnapshotID // insertion order, oldest first
	closed bool
}

func New() *Store {
	return &Store{
		snaps: make(map[string]*snapshot.Snapshot),
	}
}

func (s *Store) Save(_ context.Context, snap *snapshot.Snapshot) error {
	if snap == nil || snap.ID.IsNil() {
		return tokenledger.ErrInvalidSnapshot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return tokenledger.ErrStoreClosed
	}

	key := snap.ID.String()
	if _, exists := s.snaps[key]; !exists {
		s.order = append(s.order, snap.ID)
	}
	s.snaps[key] = snap.Clone()
	return nil
}

func (s *Store) Load(_ context.Context) (*snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, tokenledger.ErrStoreClosed
	}
	if len(s.order) == 0 {
		return nil, tokenledger.ErrNoSnapshot
	}
	latest := s.order[len(s.order)-1]
	return s.snaps[latest.String()].Clone(), nil
}

func (s *Store) Get(_ context.Context, snapID id.SnapshotID) (*snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, tokenledger.ErrStoreClosed
	}
	snap, ok := s.snaps[snapID.String()]
	if !ok {
		return nil, tokenledger.ErrNoSnapshot
	}
	return snap.Clone(), nil
}

func (s *Store) List(_ context.Context, limit int) ([]id.SnapshotID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, tokenledger.ErrStoreClosed
	}

	// Reverse insertion order: newest first.
	ids := make([]id.SnapshotID, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		ids = append(ids, s.order[i])
	}

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *Store) Prune(_ context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, tokenledger.ErrStoreClosed
	}
	if keep < 0 {
		keep = 0
	}
	if len(s.order) <= keep {
		return 0, nil
	}

	cut := len(s.order) - keep
	removed := s.order[:cut]
	for _, snapID := range removed {
		delete(s.snaps, snapID.String())
	}
	s.order = append([]id.SnapshotID(nil), s.order[cut:]...)
	return int64(len(removed)), nil
}

func (s *Store) Migrate(_ context.Context) error {
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return tokenledger.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
