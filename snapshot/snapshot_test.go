package snapshot

import (
	"reflect"
	"testing"

	"github.com/xraph/tokenledger/types"
)

func TestNormalizeSortsAndFilters(t *testing.T) {
	s := New("alice")
	s.Admins = []types.Identity{"carol", "bob"}
	s.Balances = []BalanceEntry{
		{Holder: "bob", Kind: 2, Amount: 10},
		{Holder: "alice", Kind: 7, Amount: 0}, // dropped
		{Holder: "bob", Kind: 1, Amount: 5},
		{Holder: "alice", Kind: 1, Amount: 3},
	}
	s.Approvals = []ApprovalEntry{
		{Holder: "bob", Delegate: "alice"},
		{Holder: "alice", Delegate: "bob"},
	}

	s.Normalize()

	wantAdmins := []types.Identity{"bob", "carol"}
	if !reflect.DeepEqual(s.Admins, wantAdmins) {
		t.Errorf("Admins: got %v, want %v", s.Admins, wantAdmins)
	}

	wantBalances := []BalanceEntry{
		{Holder: "alice", Kind: 1, Amount: 3},
		{Holder: "bob", Kind: 1, Amount: 5},
		{Holder: "bob", Kind: 2, Amount: 10},
	}
	if !reflect.DeepEqual(s.Balances, wantBalances) {
		t.Errorf("Balances: got %v, want %v", s.Balances, wantBalances)
	}

	wantApprovals := []ApprovalEntry{
		{Holder: "alice", Delegate: "bob"},
		{Holder: "bob", Delegate: "alice"},
	}
	if !reflect.DeepEqual(s.Approvals, wantApprovals) {
		t.Errorf("Approvals: got %v, want %v", s.Approvals, wantApprovals)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := New("alice")
	s.Admins = []types.Identity{"bob"}
	s.Balances = []BalanceEntry{{Holder: "bob", Kind: 1, Amount: 100}}
	s.Approvals = []ApprovalEntry{{Holder: "bob", Delegate: "carol"}}

	c := s.Clone()
	c.Admins[0] = "mallory"
	c.Balances[0].Amount = 0
	c.Approvals[0].Delegate = "mallory"

	if s.Admins[0] != "bob" {
		t.Error("clone aliases Admins")
	}
	if s.Balances[0].Amount != 100 {
		t.Error("clone aliases Balances")
	}
	if s.Approvals[0].Delegate != "carol" {
		t.Error("clone aliases Approvals")
	}
}

func TestTotalSupply(t *testing.T) {
	s := New("alice")
	s.Balances = []BalanceEntry{
		{Holder: "a", Kind: 1, Amount: 100},
		{Holder: "b", Kind: 1, Amount: 50},
		{Holder: "a", Kind: 2, Amount: 7},
		{Holder: "c", Kind: 1, Amount: types.MaxAmount},
	}

	totals := s.TotalSupply()
	if totals[2] != 7 {
		t.Errorf("kind 2 supply: got %d, want 7", totals[2])
	}
	if totals[1] != types.MaxAmount {
		t.Errorf("kind 1 supply should saturate at MaxAmount, got %d", totals[1])
	}
}
