package extension

import (
	"time"

	tuition "github.com/xraph/tuition"
	"github.com/xraph/tuition/plugin"
	"github.com/xraph/tuition/settlement"
	"github.com/xraph/tuition/snapshot"
)

// Option configures the Tuition Forge extension.
type Option func(*Extension)

// WithStore sets the snapshot store for the ledger engine.
func WithStore(s snapshot.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithSettler sets the settlement strategy, overriding SettlementMode.
func WithSettler(s settlement.Settler) Option {
	return func(e *Extension) {
		e.settler = s
	}
}

// WithLedgerOption passes a tuition.Option through to the underlying engine.
func WithLedgerOption(opt tuition.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithPlugin registers a ledger plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, tuition.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents snapshot migration and restore on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithCurrency sets the ledger currency.
func WithCurrency(currency string) Option {
	return func(e *Extension) { e.config.Currency = currency }
}

// WithSettlementMode selects the settlement mode ("hold" or "passthrough").
func WithSettlementMode(mode string) Option {
	return func(e *Extension) { e.config.SettlementMode = mode }
}

// WithSnapshotPath sets the JSON file path for the snapshot mirror.
func WithSnapshotPath(path string) Option {
	return func(e *Extension) { e.config.SnapshotPath = path }
}

// WithSnapshotInterval sets how frequently dirty state is mirrored.
func WithSnapshotInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.SnapshotInterval = d }
}

// WithTransferTimeout bounds every settlement transfer.
func WithTransferTimeout(d time.Duration) Option {
	return func(e *Extension) { e.config.TransferTimeout = d }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
