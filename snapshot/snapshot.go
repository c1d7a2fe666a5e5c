// Package snapshot defines the value capture of ledger state that the store
// layer persists and the ledger restores from.
//
// A Snapshot is a plain, normalized copy: entries are sorted, maps are
// flattened into slices, and nothing aliases the live ledger state. Two
// snapshots of identical state are deeply equal regardless of map iteration
// order, which makes round-trip tests and store backends straightforward.
package snapshot

import (
	"sort"
	"time"

	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/types"
)

// BalanceEntry is one (holder, kind) balance.
type BalanceEntry struct {
	Holder types.Identity  `json:"holder"`
	Kind   types.TokenKind `json:"kind"`
	Amount types.Amount    `json:"amount"`
}

// ApprovalEntry is one (holder, delegate) approval grant. Only granted pairs
// are recorded; there is no stored "false" state.
type ApprovalEntry struct {
	Holder   types.Identity `json:"holder"`
	Delegate types.Identity `json:"delegate"`
}

// Snapshot is a complete capture of ledger state at a point in time.
type Snapshot struct {
	ID        id.SnapshotID    `json:"id"`
	Owner     types.Identity   `json:"owner"`
	Admins    []types.Identity `json:"admins"`
	Balances  []BalanceEntry   `json:"balances"`
	Approvals []ApprovalEntry  `json:"approvals"`
	TakenAt   time.Time        `json:"taken_at"`
}

// New creates an empty snapshot for the given owner with a fresh ID.
func New(owner types.Identity) *Snapshot {
	return &Snapshot{
		ID:      id.NewSnapshotID(),
		Owner:   owner,
		TakenAt: time.Now().UTC(),
	}
}

// Normalize sorts all entry slices into canonical order: admins
// lexicographically, balances by (holder, kind), approvals by
// (holder, delegate). Zero-amount balance entries are dropped — an absent
// entry and a zero entry are indistinguishable to the ledger.
func (s *Snapshot) Normalize() {
	sort.Slice(s.Admins, func(i, j int) bool {
		return s.Admins[i] < s.Admins[j]
	})

	filtered := s.Balances[:0]
	for _, b := range s.Balances {
		if !b.Amount.IsZero() {
			filtered = append(filtered, b)
		}
	}
	s.Balances = filtered
	sort.Slice(s.Balances, func(i, j int) bool {
		if s.Balances[i].Holder != s.Balances[j].Holder {
			return s.Balances[i].Holder < s.Balances[j].Holder
		}
		return s.Balances[i].Kind < s.Balances[j].Kind
	})

	sort.Slice(s.Approvals, func(i, j int) bool {
		if s.Approvals[i].Holder != s.Approvals[j].Holder {
			return s.Approvals[i].Holder < s.Approvals[j].Holder
		}
		return s.Approvals[i].Delegate < s.Approvals[j].Delegate
	})
}

// Clone returns a deep copy. Store backends hold clones so that later
// ledger mutations cannot reach persisted state.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		ID:      s.ID,
		Owner:   s.Owner,
		TakenAt: s.TakenAt,
	}
	if s.Admins != nil {
		c.Admins = make([]types.Identity, len(s.Admins))
		copy(c.Admins, s.Admins)
	}
	if s.Balances != nil {
		c.Balances = make([]BalanceEntry, len(s.Balances))
		copy(c.Balances, s.Balances)
	}
	if s.Approvals != nil {
		c.Approvals = make([]ApprovalEntry, len(s.Approvals))
		copy(c.Approvals, s.Approvals)
	}
	return c
}

// TotalSupply returns the summed balance per token kind. Sums saturate at
// MaxAmount; a ledger can hold at most MaxAmount of a kind per holder but
// the aggregate across holders may exceed the representable range.
func (s *Snapshot) TotalSupply() map[types.TokenKind]types.Amount {
	totals := make(map[types.TokenKind]types.Amount)
	for _, b := range s.Balances {
		sum, ok := totals[b.Kind].AddChecked(b.Amount)
		if !ok {
			sum = types.MaxAmount
		}
		totals[b.Kind] = sum
	}
	return totals
}
