// Package hook provides an extensible hook system for TokenLedger.
// Hooks can observe ledger lifecycle events to extend functionality.
//
// Hooks are observers, not participants: they run after the state mutation
// has committed and the ledger's locks have been released, and a failing
// hook never rolls the mutation back.
package hook

import (
	"context"
	"time"

	"github.com/xraph/tokenledger/types"
)

// Hook is the base interface that all hooks must implement.
type Hook interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the ledger starts.
type OnInit interface {
	Hook
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the ledger is shutting down.
type OnShutdown interface {
	Hook
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Token mutation hooks
// ──────────────────────────────────────────────────

// OnMint is called after tokens are minted.
type OnMint interface {
	Hook
	OnMint(ctx context.Context, caller types.Identity, kind types.TokenKind, amount types.Amount) error
}

// OnTransfer is called after a transfer commits.
type OnTransfer interface {
	Hook
	OnTransfer(ctx context.Context, from, to types.Identity, kind types.TokenKind, amount types.Amount) error
}

// OnApprovalSet is called after an approval is recorded. The token kind is
// the value the caller passed to Approve; the stored grant itself is keyed
// by (holder, delegate) only.
type OnApprovalSet interface {
	Hook
	OnApprovalSet(ctx context.Context, holder, delegate types.Identity, kind types.TokenKind) error
}

// ──────────────────────────────────────────────────
// Roster hooks
// ──────────────────────────────────────────────────

// OnAdminAdded is called after the owner grants an admin role.
type OnAdminAdded interface {
	Hook
	OnAdminAdded(ctx context.Context, owner, admin types.Identity) error
}

// OnOwnershipTransferred is called after ownership changes hands. The admin
// set has already been cleared when this fires.
type OnOwnershipTransferred interface {
	Hook
	OnOwnershipTransferred(ctx context.Context, oldOwner, newOwner types.Identity) error
}

// ──────────────────────────────────────────────────
// Denial and persistence hooks
// ──────────────────────────────────────────────────

// OnAuthorizationDenied is called when an operation is rejected for a
// missing role. action is the public operation name ("mint", "transfer",
// "add_admin", "transfer_ownership").
type OnAuthorizationDenied interface {
	Hook
	OnAuthorizationDenied(ctx context.Context, caller types.Identity, action string) error
}

// OnSnapshotSaved is called after a checkpoint is written to the store.
type OnSnapshotSaved interface {
	Hook
	OnSnapshotSaved(ctx context.Context, snapshotID string, elapsed time.Duration) error
}

// OnStoreError is called when a checkpoint write or prune fails. op names
// the store operation that failed ("save", "prune").
type OnStoreError interface {
	Hook
	OnStoreError(ctx context.Context, op string, err error) error
}

// OnHookError is called when another hook returns an error or times out. The
// failing hook is never notified about its own failure, and errors returned
// from OnHookError are logged but not re-dispatched.
type OnHookError interface {
	Hook
	OnHookError(ctx context.Context, event, hookName string, err error) error
}
