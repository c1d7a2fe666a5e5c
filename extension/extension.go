// Package extension provides the Forge extension adapter for TokenLedger.
//
// It implements the forge.Extension interface to integrate the ledger
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.tokenledger" or
// "tokenledger" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/tokenledger"
	"github.com/xraph/tokenledger/store"
	"github.com/xraph/tokenledger/store/memory"
	"github.com/xraph/tokenledger/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "tokenledger"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Embeddable multi-token balance ledger"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts TokenLedger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *tokenledger.Ledger
	store      store.Store
	ledgerOpts []tokenledger.Option
}

// New creates a new TokenLedger Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Ledger instance.
// This is nil until Register is called.
func (e *Extension) Engine() *tokenledger.Ledger { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the ledger engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	// Build ledger options from resolved config.
	opts := e.buildLedgerOpts()

	e.engine = tokenledger.New(types.Identity(e.config.Owner), opts...)

	return vessel.Provide(fapp.Container(), func() (*tokenledger.Ledger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("tokenledger: extension not initialized")
	}

	if err := e.engine.Start(ctx); err != nil {
		return err
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("tokenledger: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildLedgerOpts constructs tokenledger.Option values from the resolved config.
func (e *Extension) buildLedgerOpts() []tokenledger.Option {
	opts := make([]tokenledger.Option, 0, len(e.ledgerOpts)+4)

	opts = append(opts, tokenledger.WithStore(e.store))

	if e.config.CheckpointInterval > 0 {
		opts = append(opts, tokenledger.WithCheckpointInterval(e.config.CheckpointInterval))
	}
	if e.config.SnapshotRetention > 0 {
		opts = append(opts, tokenledger.WithSnapshotRetention(e.config.SnapshotRetention))
	}
	if e.config.DisableMigrate {
		opts = append(opts, tokenledger.WithoutAutoMigrate())
	}

	// Append any pass-through ledger options.
	opts = append(opts, e.ledgerOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("tokenledger: configuration is required but not found in config files; " +
				"ensure 'extensions.tokenledger' or 'tokenledger' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("tokenledger: configuration loaded",
		forge.F("owner", e.config.Owner),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("checkpoint_interval", e.config.CheckpointInterval),
		forge.F("snapshot_retention", e.config.SnapshotRetention),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.tokenledger" first (namespaced pattern).
	if cm.IsSet("extensions.tokenledger") {
		if err := cm.Bind("extensions.tokenledger", &cfg); err == nil {
			e.Logger().Debug("tokenledger: loaded config from file",
				forge.F("key", "extensions.tokenledger"),
			)
			return cfg, true
		}
		e.Logger().Warn("tokenledger: failed to bind extensions.tokenledger config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "tokenledger" key.
	if cm.IsSet("tokenledger") {
		if err := cm.Bind("tokenledger", &cfg); err == nil {
			e.Logger().Debug("tokenledger: loaded config from file",
				forge.F("key", "tokenledger"),
			)
			return cfg, true
		}
		e.Logger().Warn("tokenledger: failed to bind tokenledger config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = defaults.CheckpointInterval
	}
	if cfg.SnapshotRetention == 0 {
		cfg.SnapshotRetention = defaults.SnapshotRetention
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.Owner == "" && programmaticConfig.Owner != "" {
		yamlConfig.Owner = programmaticConfig.Owner
	}

	// Duration/int fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.CheckpointInterval == 0 && programmaticConfig.CheckpointInterval != 0 {
		yamlConfig.CheckpointInterval = programmaticConfig.CheckpointInterval
	}
	if yamlConfig.SnapshotRetention == 0 && programmaticConfig.SnapshotRetention != 0 {
		yamlConfig.SnapshotRetention = programmaticConfig.SnapshotRetention
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
