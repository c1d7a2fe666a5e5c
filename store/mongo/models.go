package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/snapshot"
	"github.com/xraph/tokenledger/types"
)

type snapshotModel struct {
	grove.BaseModel `grove:"table:tokenledger_snapshots"`

	ID        string          `grove:"id,pk"     bson:"_id"`
	Owner     string          `grove:"owner"     bson:"owner"`
	Admins    []string        `grove:"admins"    bson:"admins,omitempty"`
	Balances  []balanceModel  `grove:"balances"  bson:"balances,omitempty"`
	Approvals []approvalModel `grove:"approvals" bson:"approvals,omitempty"`
	TakenAt   time.Time       `grove:"taken_at"  bson:"taken_at"`
}

// balanceModel stores the amount as a decimal string: BSON has no unsigned
// 64-bit integer, and balances above MaxInt64 must round-trip exactly.
type balanceModel struct {
	Holder string `bson:"holder"`
	Kind   uint32 `bson:"kind"`
	Amount string `bson:"amount"`
}

type approvalModel struct {
	Holder   string `bson:"holder"`
	Delegate string `bson:"delegate"`
}

func toSnapshotModel(snap *snapshot.Snapshot) *snapshotModel {
	m := &snapshotModel{
		ID:      snap.ID.String(),
		Owner:   string(snap.Owner),
		TakenAt: snap.TakenAt,
	}

	for _, a := range snap.Admins {
		m.Admins = append(m.Admins, string(a))
	}
	for _, b := range snap.Balances {
		m.Balances = append(m.Balances, balanceModel{
			Holder: string(b.Holder),
			Kind:   uint32(b.Kind),
			Amount: b.Amount.String(),
		})
	}
	for _, a := range snap.Approvals {
		m.Approvals = append(m.Approvals, approvalModel{
			Holder:   string(a.Holder),
			Delegate: string(a.Delegate),
		})
	}
	return m
}

func fromSnapshotModel(m *snapshotModel) (*snapshot.Snapshot, error) {
	snapID, err := id.ParseSnapshotID(m.ID)
	if err != nil {
		return nil, err
	}

	snap := &snapshot.Snapshot{
		ID:      snapID,
		Owner:   types.Identity(m.Owner),
		TakenAt: m.TakenAt,
	}

	for _, a := range m.Admins {
		snap.Admins = append(snap.Admins, types.Identity(a))
	}
	for _, b := range m.Balances {
		amount, err := types.ParseAmount(b.Amount)
		if err != nil {
			return nil, err
		}
		snap.Balances = append(snap.Balances, snapshot.BalanceEntry{
			Holder: types.Identity(b.Holder),
			Kind:   types.TokenKind(b.Kind),
			Amount: amount,
		})
	}
	for _, a := range m.Approvals {
		snap.Approvals = append(snap.Approvals, snapshot.ApprovalEntry{
			Holder:   types.Identity(a.Holder),
			Delegate: types.Identity(a.Delegate),
		})
	}
	return snap, nil
}
