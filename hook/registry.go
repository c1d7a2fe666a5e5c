package hook

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/tokenledger/types"
)

// Registry manages all registered hooks and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu     sync.RWMutex
	hooks  []Hook
	logger *slog.Logger

	// Type-cached hook lists for efficient dispatch
	onInit                 []OnInit
	onShutdown             []OnShutdown
	onMint                 []OnMint
	onTransfer             []OnTransfer
	onApprovalSet          []OnApprovalSet
	onAdminAdded           []OnAdminAdded
	onOwnershipTransferred []OnOwnershipTransferred
	onAuthorizationDenied  []OnAuthorizationDenied
	onSnapshotSaved        []OnSnapshotSaved
	onStoreError           []OnStoreError
	onHookError            []OnHookError
}

// NewRegistry creates a new hook registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a hook to the registry and caches its interfaces.
func (r *Registry) Register(h Hook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.hooks {
		if existing.Name() == h.Name() {
			return fmt.Errorf("hook: duplicate registration: %s", h.Name())
		}
	}

	r.hooks = append(r.hooks, h)

	// Type-switch to cache interfaces
	if v, ok := h.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := h.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := h.(OnMint); ok {
		r.onMint = append(r.onMint, v)
	}
	if v, ok := h.(OnTransfer); ok {
		r.onTransfer = append(r.onTransfer, v)
	}
	if v, ok := h.(OnApprovalSet); ok {
		r.onApprovalSet = append(r.onApprovalSet, v)
	}
	if v, ok := h.(OnAdminAdded); ok {
		r.onAdminAdded = append(r.onAdminAdded, v)
	}
	if v, ok := h.(OnOwnershipTransferred); ok {
		r.onOwnershipTransferred = append(r.onOwnershipTransferred, v)
	}
	if v, ok := h.(OnAuthorizationDenied); ok {
		r.onAuthorizationDenied = append(r.onAuthorizationDenied, v)
	}
	if v, ok := h.(OnSnapshotSaved); ok {
		r.onSnapshotSaved = append(r.onSnapshotSaved, v)
	}
	if v, ok := h.(OnStoreError); ok {
		r.onStoreError = append(r.onStoreError, v)
	}
	if v, ok := h.(OnHookError); ok {
		r.onHookError = append(r.onHookError, v)
	}

	r.logger.Info("hook registered",
		"name", h.Name(),
		"interfaces", r.getImplementedInterfaces(h),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the hook.
func (r *Registry) getImplementedInterfaces(h Hook) []string {
	var interfaces []string
	v := reflect.TypeOf(h)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnMint)(nil)).Elem(), "OnMint")
	checkInterface(reflect.TypeOf((*OnTransfer)(nil)).Elem(), "OnTransfer")
	checkInterface(reflect.TypeOf((*OnApprovalSet)(nil)).Elem(), "OnApprovalSet")
	checkInterface(reflect.TypeOf((*OnAdminAdded)(nil)).Elem(), "OnAdminAdded")
	checkInterface(reflect.TypeOf((*OnOwnershipTransferred)(nil)).Elem(), "OnOwnershipTransferred")
	checkInterface(reflect.TypeOf((*OnAuthorizationDenied)(nil)).Elem(), "OnAuthorizationDenied")
	checkInterface(reflect.TypeOf((*OnSnapshotSaved)(nil)).Elem(), "OnSnapshotSaved")
	checkInterface(reflect.TypeOf((*OnStoreError)(nil)).Elem(), "OnStoreError")
	checkInterface(reflect.TypeOf((*OnHookError)(nil)).Elem(), "OnHookError")

	return interfaces
}

// Get returns a hook by name.
func (r *Registry) Get(name string) Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.hooks {
		if h.Name() == name {
			return h
		}
	}
	return nil
}

// List returns all registered hooks.
func (r *Registry) List() []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Hook, len(r.hooks))
	copy(result, r.hooks)
	return result
}

// Count returns the number of registered hooks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all hooks that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger interface{}) {
	r.mu.RLock()
	hooks := r.onInit
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnInit(ctx, ledger)
		}); err != nil {
			r.hookFailed(ctx, "OnInit", h.Name(), err)
		}
	}
}

// EmitShutdown calls OnShutdown for all hooks that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	hooks := r.onShutdown
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnShutdown(ctx)
		}); err != nil {
			r.hookFailed(ctx, "OnShutdown", h.Name(), err)
		}
	}
}

// EmitMint emits a mint event.
func (r *Registry) EmitMint(ctx context.Context, caller types.Identity, kind types.TokenKind, amount types.Amount) {
	r.mu.RLock()
	hooks := r.onMint
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnMint(ctx, caller, kind, amount)
		}); err != nil {
			r.hookFailed(ctx, "OnMint", h.Name(), err)
		}
	}
}

// EmitTransfer emits a transfer event.
func (r *Registry) EmitTransfer(ctx context.Context, from, to types.Identity, kind types.TokenKind, amount types.Amount) {
	r.mu.RLock()
	hooks := r.onTransfer
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnTransfer(ctx, from, to, kind, amount)
		}); err != nil {
			r.hookFailed(ctx, "OnTransfer", h.Name(), err)
		}
	}
}

// EmitApprovalSet emits an approval event.
func (r *Registry) EmitApprovalSet(ctx context.Context, holder, delegate types.Identity, kind types.TokenKind) {
	r.mu.RLock()
	hooks := r.onApprovalSet
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnApprovalSet(ctx, holder, delegate, kind)
		}); err != nil {
			r.hookFailed(ctx, "OnApprovalSet", h.Name(), err)
		}
	}
}

// EmitAdminAdded emits an admin grant event.
func (r *Registry) EmitAdminAdded(ctx context.Context, owner, admin types.Identity) {
	r.mu.RLock()
	hooks := r.onAdminAdded
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnAdminAdded(ctx, owner, admin)
		}); err != nil {
			r.hookFailed(ctx, "OnAdminAdded", h.Name(), err)
		}
	}
}

// EmitOwnershipTransferred emits an ownership transfer event.
func (r *Registry) EmitOwnershipTransferred(ctx context.Context, oldOwner, newOwner types.Identity) {
	r.mu.RLock()
	hooks := r.onOwnershipTransferred
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnOwnershipTransferred(ctx, oldOwner, newOwner)
		}); err != nil {
			r.hookFailed(ctx, "OnOwnershipTransferred", h.Name(), err)
		}
	}
}

// EmitAuthorizationDenied emits a denial event.
func (r *Registry) EmitAuthorizationDenied(ctx context.Context, caller types.Identity, action string) {
	r.mu.RLock()
	hooks := r.onAuthorizationDenied
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnAuthorizationDenied(ctx, caller, action)
		}); err != nil {
			r.hookFailed(ctx, "OnAuthorizationDenied", h.Name(), err)
		}
	}
}

// EmitSnapshotSaved emits a checkpoint event.
func (r *Registry) EmitSnapshotSaved(ctx context.Context, snapshotID string, elapsed time.Duration) {
	r.mu.RLock()
	hooks := r.onSnapshotSaved
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnSnapshotSaved(ctx, snapshotID, elapsed)
		}); err != nil {
			r.hookFailed(ctx, "OnSnapshotSaved", h.Name(), err)
		}
	}
}

// EmitStoreError emits a store failure event.
func (r *Registry) EmitStoreError(ctx context.Context, op string, storeErr error) {
	r.mu.RLock()
	hooks := r.onStoreError
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnStoreError(ctx, op, storeErr)
		}); err != nil {
			r.hookFailed(ctx, "OnStoreError", h.Name(), err)
		}
	}
}

// hookFailed logs a hook failure and notifies OnHookError observers. The
// failing hook itself is skipped so it cannot report on its own failure.
func (r *Registry) hookFailed(ctx context.Context, event, hookName string, err error) {
	r.logger.Warn("hook "+event+" failed",
		"hook", hookName,
		"error", err,
	)

	r.mu.RLock()
	observers := r.onHookError
	r.mu.RUnlock()

	for _, o := range observers {
		if o.Name() == hookName {
			continue
		}
		if oerr := o.OnHookError(ctx, event, hookName, err); oerr != nil {
			r.logger.Warn("hook OnHookError failed",
				"hook", o.Name(),
				"error", oerr,
			)
		}
	}
}

// callWithTimeout calls a hook function with a timeout.
// Hooks should never block the ledger's call path.
func (r *Registry) callWithTimeout(ctx context.Context, hookName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("hook timeout: %s", hookName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
