package access

import (
	"errors"
	"testing"
)

func TestOwnerPredicate(t *testing.T) {
	c := New("alice")

	if !c.IsOwner("alice") {
		t.Error("alice should be owner")
	}
	if c.IsOwner("bob") {
		t.Error("bob should not be owner")
	}
	if c.Owner() != "alice" {
		t.Errorf("Owner() = %q", c.Owner())
	}
}

func TestOwnerIsNotImplicitlyAdmin(t *testing.T) {
	c := New("alice")

	if c.IsAdmin("alice") {
		t.Error("owner must not be an implicit admin")
	}
}

func TestAddAdmin(t *testing.T) {
	c := New("alice")

	if err := c.AddAdmin("bob", "carol"); !errors.Is(err, ErrNotOwner) {
		t.Errorf("non-owner AddAdmin: got %v, want ErrNotOwner", err)
	}
	if c.IsAdmin("carol") {
		t.Error("failed AddAdmin must not mutate the roster")
	}

	if err := c.AddAdmin("alice", "bob"); err != nil {
		t.Fatalf("owner AddAdmin: %v", err)
	}
	if !c.IsAdmin("bob") {
		t.Error("bob should be admin")
	}

	// Idempotent on repeated calls.
	if err := c.AddAdmin("alice", "bob"); err != nil {
		t.Fatalf("repeated AddAdmin: %v", err)
	}
	if !c.IsAdmin("bob") {
		t.Error("bob should still be admin")
	}
}

func TestOwnerMayAddItself(t *testing.T) {
	c := New("alice")

	if err := c.AddAdmin("alice", "alice"); err != nil {
		t.Fatalf("owner adding itself: %v", err)
	}
	if !c.IsAdmin("alice") {
		t.Error("alice should be admin after self-add")
	}
}

func TestEmptyIdentityIsDistinctKey(t *testing.T) {
	c := New("")

	if !c.IsOwner("") {
		t.Error("empty identity should be a valid owner key")
	}
	if err := c.AddAdmin("", "bob"); err != nil {
		t.Fatalf("empty-identity owner AddAdmin: %v", err)
	}
	if !c.IsAdmin("bob") {
		t.Error("bob should be admin")
	}
}
