package extension

import "time"

// Config holds the TokenLedger extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.tokenledger" or "tokenledger"
// keys).
type Config struct {
	// Owner is the initial owner identity for a fresh ledger. Ignored when
	// the store already holds a snapshot, because Start restores the
	// persisted owner.
	Owner string `json:"owner" mapstructure:"owner" yaml:"owner"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// CheckpointInterval is how often dirty ledger state is checkpointed to
	// the store (default: 30s).
	CheckpointInterval time.Duration `json:"checkpoint_interval" mapstructure:"checkpoint_interval" yaml:"checkpoint_interval"`

	// SnapshotRetention keeps only the newest N snapshots in the store;
	// older ones are pruned after each checkpoint (default: 10, 0 disables).
	SnapshotRetention int `json:"snapshot_retention" mapstructure:"snapshot_retention" yaml:"snapshot_retention"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CheckpointInterval: 30 * time.Second,
		SnapshotRetention:  10,
	}
}
