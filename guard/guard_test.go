package guard

import (
	"errors"
	"testing"
)

func TestEnterExit(t *testing.T) {
	g := New()

	if g.Held() {
		t.Fatal("new guard should be unlocked")
	}
	if err := g.Enter(); err != nil {
		t.Fatalf("first Enter: %v", err)
	}
	if !g.Held() {
		t.Error("guard should be locked after Enter")
	}
	if err := g.Enter(); !errors.Is(err, ErrLocked) {
		t.Errorf("nested Enter: got %v, want ErrLocked", err)
	}

	g.Exit()
	if g.Held() {
		t.Error("guard should be unlocked after Exit")
	}
	if err := g.Enter(); err != nil {
		t.Errorf("Enter after Exit: %v", err)
	}
}

func TestExitIsUnconditional(t *testing.T) {
	g := New()

	// Exiting an unlocked guard must not panic or lock anything.
	g.Exit()
	g.Exit()

	if err := g.Enter(); err != nil {
		t.Fatalf("Enter after redundant Exit: %v", err)
	}
}

func TestZeroValueUsable(t *testing.T) {
	var g Guard
	if err := g.Enter(); err != nil {
		t.Fatalf("zero value Enter: %v", err)
	}
	g.Exit()
}
