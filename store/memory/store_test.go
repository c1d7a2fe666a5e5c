package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/tokenledger"
	"github.com/xraph/tokenledger/snapshot"
	"github.com/xraph/tokenledger/types"
)

func testSnapshot(owner string) *snapshot.Snapshot {
	snap := snapshot.New(types.Identity(owner))
	snap.Balances = []snapshot.BalanceEntry{
		{Holder: "alice", Kind: 1, Amount: 100},
		{Holder: "bob", Kind: 2, Amount: 50},
	}
	snap.Approvals = []snapshot.ApprovalEntry{
		{Holder: "alice", Delegate: "bob"},
	}
	snap.Normalize()
	return snap
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Load(ctx); !errors.Is(err, tokenledger.ErrNoSnapshot) {
		t.Fatalf("Load on empty store: got %v, want ErrNoSnapshot", err)
	}

	snap := testSnapshot("alice")
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != snap.ID {
		t.Errorf("ID: got %s, want %s", loaded.ID, snap.ID)
	}
	if loaded.Owner != snap.Owner {
		t.Errorf("Owner: got %s, want %s", loaded.Owner, snap.Owner)
	}
	if len(loaded.Balances) != 2 {
		t.Errorf("Balances: got %d entries, want 2", len(loaded.Balances))
	}
}

func TestLoadReturnsLatest(t *testing.T) {
	ctx := context.Background()
	s := New()

	first := testSnapshot("alice")
	second := testSnapshot("bob")

	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != second.ID {
		t.Errorf("Load: got %s, want latest %s", loaded.ID, second.ID)
	}
}

func TestLoadDoesNotAliasStoredState(t *testing.T) {
	ctx := context.Background()
	s := New()

	snap := testSnapshot("alice")
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Mutating the snapshot after Save must not affect the stored copy.
	snap.Balances[0].Amount = 999

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Balances[0].Amount == 999 {
		t.Error("stored snapshot aliased the caller's slice")
	}

	// Mutating a loaded snapshot must not affect later loads either.
	loaded.Balances[0].Amount = 777
	again, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if again.Balances[0].Amount == 777 {
		t.Error("loaded snapshot aliased the stored state")
	}
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	first := testSnapshot("alice")
	second := testSnapshot("bob")
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Owner != "alice" {
		t.Errorf("Owner: got %s, want alice", got.Owner)
	}

	other := testSnapshot("carol")
	if _, err := s.Get(ctx, other.ID); !errors.Is(err, tokenledger.ErrNoSnapshot) {
		t.Errorf("Get unknown ID: got %v, want ErrNoSnapshot", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()

	var saved []*snapshot.Snapshot
	for i := 0; i < 3; i++ {
		snap := testSnapshot("alice")
		if err := s.Save(ctx, snap); err != nil {
			t.Fatalf("Save: %v", err)
		}
		saved = append(saved, snap)
	}

	ids, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("List: got %d IDs, want 3", len(ids))
	}
	if ids[0] != saved[2].ID {
		t.Errorf("List[0]: got %s, want newest %s", ids[0], saved[2].ID)
	}

	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List with limit: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("List with limit: got %d IDs, want 2", len(limited))
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	s := New()

	var saved []*snapshot.Snapshot
	for i := 0; i < 5; i++ {
		snap := testSnapshot("alice")
		if err := s.Save(ctx, snap); err != nil {
			t.Fatalf("Save: %v", err)
		}
		saved = append(saved, snap)
	}

	removed, err := s.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 3 {
		t.Errorf("Prune: removed %d, want 3", removed)
	}

	ids, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("List after prune: got %d, want 2", len(ids))
	}
	if ids[0] != saved[4].ID || ids[1] != saved[3].ID {
		t.Error("Prune removed the wrong snapshots")
	}

	// Pruning below the current count is a no-op.
	removed, err = s.Prune(ctx, 10)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 0 {
		t.Errorf("Prune no-op: removed %d, want 0", removed)
	}
}

func TestClosedStoreRejectsOperations(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := s.Save(ctx, testSnapshot("alice")); !errors.Is(err, tokenledger.ErrStoreClosed) {
		t.Errorf("Save after close: got %v, want ErrStoreClosed", err)
	}
	if _, err := s.Load(ctx); !errors.Is(err, tokenledger.ErrStoreClosed) {
		t.Errorf("Load after close: got %v, want ErrStoreClosed", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, tokenledger.ErrStoreClosed) {
		t.Errorf("Ping after close: got %v, want ErrStoreClosed", err)
	}
}

func TestSaveRejectsInvalidSnapshot(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Save(ctx, nil); !errors.Is(err, tokenledger.ErrInvalidSnapshot) {
		t.Errorf("Save nil: got %v, want ErrInvalidSnapshot", err)
	}

	if err := s.Save(ctx, &snapshot.Snapshot{Owner: "alice"}); !errors.Is(err, tokenledger.ErrInvalidSnapshot) {
		t.Errorf("Save without ID: got %v, want ErrInvalidSnapshot", err)
	}
}
