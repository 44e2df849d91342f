// Package extension provides the Forge extension adapter for Tuition.
//
// It implements the forge.Extension interface to integrate the tuition
// ledger into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.tuition" or "tuition"
// keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	tuition "github.com/xraph/tuition"
	"github.com/xraph/tuition/settlement"
	"github.com/xraph/tuition/snapshot"
	"github.com/xraph/tuition/snapshot/file"
	"github.com/xraph/tuition/snapshot/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "tuition"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Tuition payment ledger with scholarship discounts and settlement"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the tuition ledger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *tuition.Ledger
	store      snapshot.Store
	settler    settlement.Settler
	ledgerOpts []tuition.Option
}

// New creates a new Tuition Forge extension with the given options.
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
func (e *Extension) Engine() *tuition.Ledger { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the ledger engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Pick a snapshot store if none was provided programmatically.
	if e.store == nil {
		if e.config.SnapshotPath != "" {
			e.store = file.New(e.config.SnapshotPath)
		} else {
			e.store = memory.New()
		}
	}

	opts := e.buildLedgerOpts()

	eng := tuition.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*tuition.Ledger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("tuition: extension not initialized")
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
		return errors.New("tuition: snapshot store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildLedgerOpts constructs tuition.Option values from the resolved config.
func (e *Extension) buildLedgerOpts() []tuition.Option {
	opts := make([]tuition.Option, 0, len(e.ledgerOpts)+5)

	opts = append(opts, tuition.WithCurrency(e.config.Currency))

	if e.config.DisableMigrate {
		opts = append(opts, tuition.WithDisableMigrate())
	}

	settler := e.settler
	if settler == nil && e.config.SettlementMode == ModePassThrough {
		settler = settlement.NewPassThrough(e.config.Currency)
	}
	if settler != nil {
		opts = append(opts, tuition.WithSettler(settler))
	}

	if e.config.SnapshotInterval > 0 {
		opts = append(opts, tuition.WithSnapshotInterval(e.config.SnapshotInterval))
	}
	if e.config.TransferTimeout > 0 {
		opts = append(opts, tuition.WithTransferTimeout(e.config.TransferTimeout))
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
			return errors.New("tuition: configuration is required but not found in config files; " +
				"ensure 'extensions.tuition' or 'tuition' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("tuition: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("currency", e.config.Currency),
		forge.F("settlement_mode", e.config.SettlementMode),
		forge.F("snapshot_path", e.config.SnapshotPath),
		forge.F("snapshot_interval", e.config.SnapshotInterval),
		forge.F("transfer_timeout", e.config.TransferTimeout),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.tuition" first (namespaced pattern).
	if cm.IsSet("extensions.tuition") {
		if err := cm.Bind("extensions.tuition", &cfg); err == nil {
			e.Logger().Debug("tuition: loaded config from file",
				forge.F("key", "extensions.tuition"),
			)
			return cfg, true
		}
		e.Logger().Warn("tuition: failed to bind extensions.tuition config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "tuition" key.
	if cm.IsSet("tuition") {
		if err := cm.Bind("tuition", &cfg); err == nil {
			e.Logger().Debug("tuition: loaded config from file",
				forge.F("key", "tuition"),
			)
			return cfg, true
		}
		e.Logger().Warn("tuition: failed to bind tuition config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.Currency == "" {
		cfg.Currency = defaults.Currency
	}
	if cfg.SettlementMode == "" {
		cfg.SettlementMode = defaults.SettlementMode
	}
	if cfg.SnapshotInterval == 0 {
		cfg.SnapshotInterval = defaults.SnapshotInterval
	}
	if cfg.TransferTimeout == 0 {
		cfg.TransferTimeout = defaults.TransferTimeout
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
	if yamlConfig.Currency == "" && programmaticConfig.Currency != "" {
		yamlConfig.Currency = programmaticConfig.Currency
	}
	if yamlConfig.SettlementMode == "" && programmaticConfig.SettlementMode != "" {
		yamlConfig.SettlementMode = programmaticConfig.SettlementMode
	}
	if yamlConfig.SnapshotPath == "" && programmaticConfig.SnapshotPath != "" {
		yamlConfig.SnapshotPath = programmaticConfig.SnapshotPath
	}

	// Duration fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.SnapshotInterval == 0 && programmaticConfig.SnapshotInterval != 0 {
		yamlConfig.SnapshotInterval = programmaticConfig.SnapshotInterval
	}
	if yamlConfig.TransferTimeout == 0 && programmaticConfig.TransferTimeout != 0 {
		yamlConfig.TransferTimeout = programmaticConfig.TransferTimeout
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
