package sqlite

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/snapshot"
	"github.com/xraph/tokenledger/types"
)

type snapshotModel struct {
	grove.BaseModel `grove:"table:tokenledger_snapshots"`

	ID        string          `grove:"id,pk"`
	Owner     string          `grove:"owner"`
	Admins    json.RawMessage `grove:"admins"`
	Balances  json.RawMessage `grove:"balances"`
	Approvals json.RawMessage `grove:"approvals"`
	TakenAt   time.Time       `grove:"taken_at"`
}

func toSnapshotModel(snap *snapshot.Snapshot) *snapshotModel {
	admins, _ := json.Marshal(snap.Admins)       //nolint:errcheck // plain slices cannot fail
	balances, _ := json.Marshal(snap.Balances)   //nolint:errcheck // plain slices cannot fail
	approvals, _ := json.Marshal(snap.Approvals) //nolint:errcheck // plain slices cannot fail

	return &snapshotModel{
		ID:        snap.ID.String(),
		Owner:     string(snap.Owner),
		Admins:    admins,
		Balances:  balances,
		Approvals: approvals,
		TakenAt:   snap.TakenAt,
	}
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

	if len(m.Admins) > 0 {
		if err := json.Unmarshal(m.Admins, &snap.Admins); err != nil {
			return nil, err
		}
	}
	if len(m.Balances) > 0 {
		if err := json.Unmarshal(m.Balances, &snap.Balances); err != nil {
			return nil, err
		}
	}
	if len(m.Approvals) > 0 {
		if err := json.Unmarshal(m.Approvals, &snap.Approvals); err != nil {
			return nil, err
		}
	}
	return snap, nil
}
