// Package access manages the ledger's owner and admin roster and answers
// authorization queries over it.
//
// Owner and admin are two independent predicates over the same identity
// space, not a hierarchy: the owner is not implicitly an admin, and callers
// that need "owner or admin" must check both explicitly.
package access

import (
	"errors"

	"github.com/xraph/tokenledger/types"
)

// ErrNotOwner is returned when an owner-gated operation is attempted by a
// caller that is not the current owner.
var ErrNotOwner = errors.New("access: only the owner can perform this action")

// Control holds one owner identity and a set of admin identities.
// It is not safe for concurrent use on its own; the Ledger serializes all
// access to it under its state lock.
type Control struct {
	owner  types.Identity
	admins map[types.Identity]struct{}
}

// New creates a Control with the given owner and an empty admin set.
func New(owner types.Identity) *Control {
	return &Control{
		owner:  owner,
		admins: make(map[types.Identity]struct{}),
	}
}

// Owner returns the current owner identity.
func (c *Control) Owner() types.Identity { return c.owner }

// IsOwner reports whether caller is the current owner.
func (c *Control) IsOwner(caller types.Identity) bool {
	return c.owner == caller
}

// IsAdmin reports whether caller is in the admin set. The owner is NOT
// implicitly an admin.
func (c *Control) IsAdmin(caller types.Identity) bool {
	_, ok := c.admins[caller]
	return ok
}

// AddAdmin inserts newAdmin into the admin set. Only the current owner may
// add admins; re-adding an existing admin is a no-op success. There is no
// self-admin restriction — the owner may add itself.
func (c *Control) AddAdmin(caller, newAdmin types.Identity) error {
	if !c.IsOwner(caller) {
		return ErrNotOwner
	}
	c.admins[newAdmin] = struct{}{}
	return nil
}

// Admins returns the admin identities in unspecified order.
func (c *Control) Admins() []types.Identity {
	out := make([]types.Identity, 0, len(c.admins))
	for a := range c.admins {
		out = append(out, a)
	}
	return out
}
