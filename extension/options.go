package extension

import (
	"time"

	"github.com/xraph/tokenledger"
	"github.com/xraph/tokenledger/hook"
	"github.com/xraph/tokenledger/store"
)

// Option configures the TokenLedger Forge extension.
type Option func(*Extension)

// WithStore sets the store for the ledger engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithLedgerOption passes a tokenledger.Option through to the underlying engine.
func WithLedgerOption(opt tokenledger.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithHook registers a ledger lifecycle hook.
func WithHook(h hook.Hook) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, tokenledger.WithHook(h))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithOwner sets the initial owner identity for a fresh ledger.
func WithOwner(owner string) Option {
	return func(e *Extension) { e.config.Owner = owner }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithCheckpointInterval sets how often ledger state is checkpointed.
func WithCheckpointInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.CheckpointInterval = d }
}

// WithSnapshotRetention sets how many snapshots to keep in the store.
func WithSnapshotRetention(n int) Option {
	return func(e *Extension) { e.config.SnapshotRetention = n }
}
