package tokenledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/tokenledger/access"
	"github.com/xraph/tokenledger/guard"
	"github.com/xraph/tokenledger/hook"
	"github.com/xraph/tokenledger/snapshot"
	"github.com/xraph/tokenledger/store"
	"github.com/xraph/tokenledger/types"
)

// balanceKey addresses one balance cell.
type balanceKey struct {
	holder types.Identity
	kind   types.TokenKind
}

// Ledger is the multi-token balance ledger.
//
// All state is owned exclusively by the instance and guarded by a single
// lock held for the duration of each public operation, so a multi-threaded
// host needs no external synchronization. Caller identity is supplied
// explicitly on every mutating call; the ledger authorizes against its
// recorded owner/admin/approval state but performs no authentication.
type Ledger struct {
	mu        sync.RWMutex
	balances  map[balanceKey]types.Amount
	approvals map[types.Identity]map[types.Identity]bool
	access    *access.Control
	guard     *guard.Guard
	dirty     bool

	store  store.Store
	hooks  *hook.Registry
	logger *slog.Logger

	// Background checkpointing
	stopChan chan struct{}
	wg       sync.WaitGroup

	checkpointInterval time.Duration
	snapshotRetention  int
	autoMigrate        bool
}

// New creates a Ledger with the given initial owner, empty balances and
// approvals, and an empty admin set.
func New(owner types.Identity, opts ...Option) *Ledger {
	l := &Ledger{
		balances:           make(map[balanceKey]types.Amount),
		approvals:          make(map[types.Identity]map[types.Identity]bool),
		access:             access.New(owner),
		guard:              guard.New(),
		hooks:              hook.NewRegistry(),
		logger:             slog.Default(),
		stopChan:           make(chan struct{}),
		checkpointInterval: 30 * time.Second,
		autoMigrate:        true,
	}

	for _, opt := range opts {
		opt(l)
	}

	l.logger.Info("ledger initialized", "owner", owner)
	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.hooks.WithLogger(logger)
	}
}

// WithHook registers a lifecycle hook.
func WithHook(h hook.Hook) Option {
	return func(l *Ledger) {
		_ = l.hooks.Register(h) //nolint:errcheck // best-effort hook registration during init
	}
}

// WithStore sets the snapshot store. Without a store the ledger is purely
// in-memory and Start/Stop skip persistence entirely.
func WithStore(s store.Store) Option {
	return func(l *Ledger) {
		l.store = s
	}
}

// WithCheckpointInterval sets how often dirty state is checkpointed to the
// store. Zero disables the background worker; explicit Checkpoint calls and
// the final save on Stop still happen.
func WithCheckpointInterval(d time.Duration) Option {
	return func(l *Ledger) {
		l.checkpointInterval = d
	}
}

// WithSnapshotRetention keeps only the newest n snapshots in the store;
// older ones are pruned after each successful checkpoint. Zero disables
// pruning.
func WithSnapshotRetention(n int) Option {
	return func(l *Ledger) {
		l.snapshotRetention = n
	}
}

// WithoutAutoMigrate skips store migration on Start. Use when the host runs
// migrations itself.
func WithoutAutoMigrate() Option {
	return func(l *Ledger) {
		l.autoMigrate = false
	}
}

// Start migrates the store, restores the latest snapshot if one exists, and
// begins the background checkpoint worker.
func (l *Ledger) Start(ctx context.Context) error {
	if l.store != nil {
		if l.autoMigrate {
			if err := l.store.Migrate(ctx); err != nil {
				return err
			}
		}

		snap, err := l.store.Load(ctx)
		switch {
		case err == nil:
			if err := l.Restore(snap); err != nil {
				return err
			}
			l.logger.Info("ledger state restored",
				"snapshot_id", snap.ID.String(),
				"balances", len(snap.Balances),
			)
		case errors.Is(err, ErrNoSnapshot):
			// Fresh store, keep the constructed state.
		default:
			return err
		}
	}

	// Initialize hooks
	l.hooks.EmitInit(ctx, l)

	if l.store != nil && l.checkpointInterval > 0 {
		l.wg.Add(1)
		go l.checkpointWorker(ctx)
	}

	l.logger.Info("ledger started",
		"owner", l.Owner(),
		"checkpoint_interval", l.checkpointInterval,
		"persistent", l.store != nil,
	)

	return nil
}

// Stop shuts down the Ledger: it stops the checkpoint worker, writes a
// final checkpoint if state is dirty, emits shutdown hooks, and closes the
// store.
func (l *Ledger) Stop() error {
	close(l.stopChan)
	l.wg.Wait()

	ctx := context.Background()

	var saveErr error
	if l.store != nil {
		saveErr = l.checkpoint(ctx)
	}

	l.hooks.EmitShutdown(ctx)

	if l.store != nil {
		if err := l.store.Close(); err != nil {
			return err
		}
	}
	return saveErr
}

// ──────────────────────────────────────────────────
// Token operations
// ──────────────────────────────────────────────────

// Mint credits amount of kind to the caller's own balance. Only admins may
// mint, and there is no recipient parameter: an admin mints to itself. The
// reentrancy guard is entered after the admin check, so unauthorized calls
// never touch the lock, and it is released on every path.
func (l *Ledger) Mint(ctx context.Context, caller types.Identity, kind types.TokenKind, amount types.Amount) error {
	l.mu.Lock()
	if !l.access.IsAdmin(caller) {
		l.mu.Unlock()
		l.logger.Warn("mint denied: caller is not an admin",
			"caller", caller,
			"kind", kind,
		)
		l.hooks.EmitAuthorizationDenied(ctx, caller, "mint")
		return fmt.Errorf("%w: %q cannot mint", ErrUnauthorized, caller)
	}

	if err := l.guard.Enter(); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("%w: mint critical section is held", ErrReentrancy)
	}

	key := balanceKey{holder: caller, kind: kind}
	cur := l.balances[key]
	next, ok := cur.AddChecked(amount)
	if !ok {
		l.guard.Exit()
		l.mu.Unlock()
		return &BalanceError{
			Holder: string(caller),
			Kind:   uint32(kind),
			Have:   uint64(cur),
			Want:   uint64(amount),
			Reason: ErrOverflow,
		}
	}
	l.balances[key] = next
	l.dirty = true
	l.guard.Exit()
	l.mu.Unlock()

	l.logger.Info("minted tokens",
		"caller", caller,
		"kind", kind,
		"amount", amount,
	)
	l.hooks.EmitMint(ctx, caller, kind, amount)
	return nil
}

// Transfer moves amount of kind from the caller's balance to `to`. The
// caller must be the ledger owner or hold an approval recorded under its
// own identity (a holder enables the approval branch by approving itself;
// see IsApproved). Debit and credit commit atomically: overflow of the
// recipient balance is checked before any mutation applies.
func (l *Ledger) Transfer(ctx context.Context, caller, to types.Identity, kind types.TokenKind, amount types.Amount) error {
	l.mu.Lock()
	if !l.isApprovedLocked(caller, caller) && !l.access.IsOwner(caller) {
		l.mu.Unlock()
		l.logger.Warn("transfer denied: caller is not approved or the owner",
			"caller", caller,
			"to", to,
			"kind", kind,
		)
		l.hooks.EmitAuthorizationDenied(ctx, caller, "transfer")
		return fmt.Errorf("%w: %q cannot transfer", ErrUnauthorized, caller)
	}

	fromKey := balanceKey{holder: caller, kind: kind}
	toKey := balanceKey{holder: to, kind: kind}

	fromBal := l.balances[fromKey]
	remaining, ok := fromBal.SubChecked(amount)
	if !ok {
		l.mu.Unlock()
		return &BalanceError{
			Holder: string(caller),
			Kind:   uint32(kind),
			Have:   uint64(fromBal),
			Want:   uint64(amount),
			Reason: ErrInsufficientBalance,
		}
	}

	creditBase := l.balances[toKey]
	if toKey == fromKey {
		creditBase = remaining
	}
	credited, ok := creditBase.AddChecked(amount)
	if !ok {
		l.mu.Unlock()
		return &BalanceError{
			Holder: string(to),
			Kind:   uint32(kind),
			Have:   uint64(creditBase),
			Want:   uint64(amount),
			Reason: ErrOverflow,
		}
	}

	l.balances[fromKey] = remaining
	l.balances[toKey] = credited
	l.dirty = true
	l.mu.Unlock()

	l.logger.Info("transferred tokens",
		"from", caller,
		"to", to,
		"kind", kind,
		"amount", amount,
	)
	l.hooks.EmitTransfer(ctx, caller, to, kind, amount)
	return nil
}

// Approve records delegate as approved by the caller. The grant is
// unconditional and keyed by (holder, delegate) only; kind is accepted for
// interface compatibility and diagnostics but is not part of the stored
// key, so a later approval for a different kind re-asserts the same grant.
// Revocation is not exposed.
func (l *Ledger) Approve(ctx context.Context, caller, delegate types.Identity, kind types.TokenKind) error {
	l.mu.Lock()
	grants := l.approvals[caller]
	if grants == nil {
		grants = make(map[types.Identity]bool)
		l.approvals[caller] = grants
	}
	grants[delegate] = true
	l.dirty = true
	l.mu.Unlock()

	l.logger.Info("approval set",
		"holder", caller,
		"delegate", delegate,
		"kind", kind,
	)
	l.hooks.EmitApprovalSet(ctx, caller, delegate, kind)
	return nil
}

// BalanceOf returns the balance for (holder, kind). Unknown pairs are 0;
// there is no error case.
func (l *Ledger) BalanceOf(holder types.Identity, kind types.TokenKind) types.Amount {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[balanceKey{holder: holder, kind: kind}]
}

// IsApproved reports whether holder has recorded delegate as approved.
func (l *Ledger) IsApproved(holder, delegate types.Identity) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.isApprovedLocked(holder, delegate)
}

func (l *Ledger) isApprovedLocked(holder, delegate types.Identity) bool {
	return l.approvals[holder][delegate]
}

// ──────────────────────────────────────────────────
// Roster operations
// ──────────────────────────────────────────────────

// AddAdmin grants newAdmin the admin role. Only the current owner may do
// this; repeated grants are no-op successes.
func (l *Ledger) AddAdmin(ctx context.Context, caller, newAdmin types.Identity) error {
	l.mu.Lock()
	if err := l.access.AddAdmin(caller, newAdmin); err != nil {
		l.mu.Unlock()
		l.logger.Warn("add admin denied: caller is not the owner",
			"caller", caller,
			"new_admin", newAdmin,
		)
		l.hooks.EmitAuthorizationDenied(ctx, caller, "add_admin")
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	owner := l.access.Owner()
	l.dirty = true
	l.mu.Unlock()

	l.logger.Info("admin added",
		"owner", owner,
		"admin", newAdmin,
	)
	l.hooks.EmitAdminAdded(ctx, owner, newAdmin)
	return nil
}

// TransferOwnership replaces the access control state wholesale with a
// fresh one for newOwner. The admin set is cleared as a consequence: admins
// are NOT carried over to the new owner regime.
func (l *Ledger) TransferOwnership(ctx context.Context, caller, newOwner types.Identity) error {
	l.mu.Lock()
	if !l.access.IsOwner(caller) {
		l.mu.Unlock()
		l.logger.Warn("ownership transfer denied: caller is not the owner",
			"caller", caller,
			"new_owner", newOwner,
		)
		l.hooks.EmitAuthorizationDenied(ctx, caller, "transfer_ownership")
		return fmt.Errorf("%w: %q cannot transfer ownership", ErrUnauthorized, caller)
	}
	oldOwner := l.access.Owner()
	l.access = access.New(newOwner)
	l.dirty = true
	l.mu.Unlock()

	l.logger.Info("ownership transferred",
		"old_owner", oldOwner,
		"new_owner", newOwner,
	)
	l.hooks.EmitOwnershipTransferred(ctx, oldOwner, newOwner)
	return nil
}

// Owner returns the current owner identity.
func (l *Ledger) Owner() types.Identity {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.access.Owner()
}

// IsOwner reports whether caller is the current owner.
func (l *Ledger) IsOwner(caller types.Identity) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.access.IsOwner(caller)
}

// IsAdmin reports whether caller holds the admin role. The owner is not
// implicitly an admin.
func (l *Ledger) IsAdmin(caller types.Identity) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.access.IsAdmin(caller)
}

// ──────────────────────────────────────────────────
// Snapshot and checkpointing
// ──────────────────────────────────────────────────

// Snapshot returns a normalized, non-aliasing capture of the current state.
func (l *Ledger) Snapshot() *snapshot.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

func (l *Ledger) snapshotLocked() *snapshot.Snapshot {
	snap := snapshot.New(l.access.Owner())
	snap.Admins = l.access.Admins()

	snap.Balances = make([]snapshot.BalanceEntry, 0, len(l.balances))
	for k, v := range l.balances {
		snap.Balances = append(snap.Balances, snapshot.BalanceEntry{
			Holder: k.holder,
			Kind:   k.kind,
			Amount: v,
		})
	}

	for holder, grants := range l.approvals {
		for delegate, granted := range grants {
			if granted {
				snap.Approvals = append(snap.Approvals, snapshot.ApprovalEntry{
					Holder:   holder,
					Delegate: delegate,
				})
			}
		}
	}

	snap.Normalize()
	return snap
}

// Restore replaces the entire ledger state with the snapshot's contents.
func (l *Ledger) Restore(snap *snapshot.Snapshot) error {
	if snap == nil {
		return ErrInvalidSnapshot
	}

	ctl := access.New(snap.Owner)
	for _, a := range snap.Admins {
		if err := ctl.AddAdmin(snap.Owner, a); err != nil {
			return fmt.Errorf("%w: restore admin %q: %v", ErrInvalidSnapshot, a, err)
		}
	}

	balances := make(map[balanceKey]types.Amount, len(snap.Balances))
	for _, b := range snap.Balances {
		balances[balanceKey{holder: b.Holder, kind: b.Kind}] = b.Amount
	}

	approvals := make(map[types.Identity]map[types.Identity]bool)
	for _, a := range snap.Approvals {
		grants := approvals[a.Holder]
		if grants == nil {
			grants = make(map[types.Identity]bool)
			approvals[a.Holder] = grants
		}
		grants[a.Delegate] = true
	}

	l.mu.Lock()
	l.access = ctl
	l.balances = balances
	l.approvals = approvals
	l.dirty = false
	l.mu.Unlock()

	return nil
}

// Checkpoint saves the current state to the store immediately, regardless
// of the dirty flag.
func (l *Ledger) Checkpoint(ctx context.Context) error {
	if l.store == nil {
		return ErrStoreNotReady
	}

	l.mu.Lock()
	snap := l.snapshotLocked()
	l.dirty = false
	l.mu.Unlock()

	return l.saveSnapshot(ctx, snap)
}

// checkpointWorker periodically persists dirty state.
func (l *Ledger) checkpointWorker(ctx context.Context) {
	defer l.wg.Done()

	ticker := time.NewTicker(l.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			// Final save happens in Stop.
			return

		case <-ticker.C:
			if err := l.checkpoint(ctx); err != nil {
				l.logger.Error("failed to checkpoint ledger state",
					"error", err,
				)
			}
		}
	}
}

// checkpoint saves state only if something changed since the last save.
func (l *Ledger) checkpoint(ctx context.Context) error {
	l.mu.Lock()
	if !l.dirty {
		l.mu.Unlock()
		return nil
	}
	snap := l.snapshotLocked()
	l.dirty = false
	l.mu.Unlock()

	if err := l.saveSnapshot(ctx, snap); err != nil {
		// Keep the state flagged so the next tick retries.
		l.mu.Lock()
		l.dirty = true
		l.mu.Unlock()
		return err
	}
	return nil
}

func (l *Ledger) saveSnapshot(ctx context.Context, snap *snapshot.Snapshot) error {
	start := time.Now()

	if err := l.store.Save(ctx, snap); err != nil {
		l.hooks.EmitStoreError(ctx, "save", err)
		return err
	}

	elapsed := time.Since(start)
	l.hooks.EmitSnapshotSaved(ctx, snap.ID.String(), elapsed)

	l.logger.Debug("saved ledger snapshot",
		"snapshot_id", snap.ID.String(),
		"balances", len(snap.Balances),
		"elapsed_ms", elapsed.Milliseconds(),
	)

	if l.snapshotRetention > 0 {
		pruned, err := l.store.Prune(ctx, l.snapshotRetention)
		if err != nil {
			l.logger.Warn("failed to prune old snapshots",
				"retention", l.snapshotRetention,
				"error", err,
			)
			l.hooks.EmitStoreError(ctx, "prune", err)
		} else if pruned > 0 {
			l.logger.Debug("pruned old snapshots",
				"removed", pruned,
				"retention", l.snapshotRetention,
			)
		}
	}
	return nil
}
