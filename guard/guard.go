// Package guard provides the single-bit reentrancy lock that serializes the
// ledger's guarded critical sections.
//
// The guard is not a general-purpose mutex: Enter fails immediately instead
// of blocking when the lock is held, which is the behavior a reentrant call
// chain must observe. It is implemented with an atomic compare-and-swap so
// the contract also holds under a multi-threaded host.
package guard

import (
	"errors"
	"sync/atomic"
)

// ErrLocked is returned by Enter when the guard is already held.
var ErrLocked = errors.New("guard: reentrant call detected")

// Guard is a binary reentrancy lock. The zero value is unlocked and ready
// to use.
type Guard struct {
	locked atomic.Bool
}

// New creates an unlocked Guard.
func New() *Guard {
	return &Guard{}
}

// Enter acquires the guard. It fails with ErrLocked if the guard is already
// held; it never blocks.
func (g *Guard) Enter() error {
	if !g.locked.CompareAndSwap(false, true) {
		return ErrLocked
	}
	return nil
}

// Exit releases the guard unconditionally. Exiting an unlocked guard is a
// no-op, which is a deliberate simplification of the lock's contract: the
// caller's protocol (Exit on every path after a successful Enter) is what
// keeps the guard balanced.
func (g *Guard) Exit() {
	g.locked.Store(false)
}

// Held reports whether the guard is currently locked.
func (g *Guard) Held() bool {
	return g.locked.Load()
}
