package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the snapshot store.
var Migrations = migrate.NewGroup("tokenledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_tokenledger_snapshots",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tokenledger_snapshots (
    id        TEXT PRIMARY KEY,
    owner     TEXT NOT NULL DEFAULT '',
    admins    JSONB NOT NULL DEFAULT '[]',
    balances  JSONB NOT NULL DEFAULT '[]',
    approvals JSONB NOT NULL DEFAULT '[]',
    taken_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_tokenledger_snapshots_taken_at ON tokenledger_snapshots (taken_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tokenledger_snapshots`)
				return err
			},
		},
	)
}
