// Package tokenledger provides an embeddable multi-token balance ledger for
// Go applications.
//
// TokenLedger is designed as a library, not a service. A single Ledger
// instance tracks unsigned 64-bit balances addressed by (holder, token kind)
// pairs, an owner/admin roster, and delegated transfer approvals. It
// provides:
//
//   - Per-(holder, kind) balances with checked arithmetic (no silent
//     overflow or underflow)
//   - Owner and admin roles with explicit caller identity on every
//     mutating operation
//   - Delegated approvals gating the transfer path
//   - A reentrancy guard around minting
//   - Snapshot persistence to memory, SQLite, PostgreSQL, or MongoDB
//   - Lifecycle hooks for observability and audit trails
//
// # Quick Start
//
// Create a ledger with an owner identity, promote an admin, mint and move
// tokens:
//
//	import "github.com/xraph/tokenledger"
//
//	l := tokenledger.New("alice")
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
//	// Owner promotes an admin; admins mint to their own balance.
//	l.AddAdmin(ctx, "alice", "bob")
//	l.Mint(ctx, "bob", 7, 1_000)
//
//	// A holder self-approves to unlock the transfer path, then moves
//	// tokens to anyone.
//	l.Approve(ctx, "bob", "bob", 7)
//	l.Transfer(ctx, "bob", "carol", 7, 250)
//
//	balance := l.BalanceOf("carol", 7) // 250
//
// # Identity Model
//
// The ledger performs no authentication. Callers pass an Identity (an
// opaque string) on every mutating operation and the ledger authorizes it
// against recorded owner, admin, and approval state. Host applications are
// responsible for binding identities to authenticated principals.
//
// # Arithmetic
//
// All balances are unsigned 64-bit integers. Operations that would wrap
// fail with a BalanceError carrying ErrOverflow or ErrInsufficientBalance;
// state is never partially mutated.
//
// # Persistence
//
// State lives in memory; a store configured with WithStore receives
// periodic snapshots and the latest one is restored on Start. Snapshot IDs
// use TypeID and are K-sortable:
//
//	snap_01h2xcejqtf2nbrexx3vqjhp41
//
// so the newest snapshot is simply the one with the largest ID.
package tokenledger
